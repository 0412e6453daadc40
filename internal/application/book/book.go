package book

import (
	"github.com/xiebiao/library/internal/domain/book"
)

const timeLayout = "2006-01-02 15:04:05"

// BookListItem 列表项DTO(不含description)
type BookListItem struct {
	ID              uint   `json:"id"`
	ISBN            string `json:"isbn"`
	Title           string `json:"title"`
	AuthorID        uint   `json:"author_id"`
	AuthorName      string `json:"author_name"`
	CategoryID      uint   `json:"category_id"`
	CategoryName    string `json:"category_name"`
	TotalCopies     int    `json:"total_copies"`
	AvailableCopies int    `json:"available_copies"`
	CoverURL        string `json:"cover_url"`
	CreatedAt       string `json:"created_at"`
}

// BookDetail 详情DTO
type BookDetail struct {
	BookListItem
	Description string `json:"description"`
	UpdatedAt   string `json:"updated_at"`
}

func toListItem(b *book.Book) BookListItem {
	return BookListItem{
		ID:              b.ID,
		ISBN:            b.ISBN,
		Title:           b.Title,
		AuthorID:        b.AuthorID,
		AuthorName:      b.AuthorName,
		CategoryID:      b.CategoryID,
		CategoryName:    b.CategoryName,
		TotalCopies:     b.TotalCopies,
		AvailableCopies: b.AvailableCopies,
		CoverURL:        b.CoverURL,
		CreatedAt:       b.CreatedAt.Format(timeLayout),
	}
}

func toDetail(b *book.Book) *BookDetail {
	return &BookDetail{
		BookListItem: toListItem(b),
		Description:  b.Description,
		UpdatedAt:    b.UpdatedAt.Format(timeLayout),
	}
}
