// internal/domain/board/service.go
package board

import (
	"context"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/your-org/storefront-backend/internal/domain/item"
	"gorm.io/gorm"
)

// ItemCache is invalidated when an item's star average changes
type ItemCache interface {
	Invalidate(iid uint)
}

// Service handles review and Q&A business logic
type Service struct {
	db     *gorm.DB
	items  ItemCache
	logger *logrus.Logger
}

// NewService creates a new board service
func NewService(db *gorm.DB, items ItemCache, logger *logrus.Logger) *Service {
	return &Service{
		db:     db,
		items:  items,
		logger: logger,
	}
}

// CreateRequest represents a new review or question
type CreateRequest struct {
	IID     uint   `json:"iid" binding:"required"`
	Type    string `json:"type" binding:"required,oneof=review qna"`
	TypeQnA string `json:"typeQnA"`
	Title   string `json:"title" binding:"required,max=255"`
	Content string `json:"content"`
	Img     string `json:"img"`
	Sta     int    `json:"sta"`
}

// UpdateRequest represents changes to an entry; type and item are fixed
type UpdateRequest struct {
	TypeQnA *string `json:"typeQnA"`
	Title   *string `json:"title" binding:"omitempty,max=255"`
	Content *string `json:"content"`
	Img     *string `json:"img"`
	Sta     *int    `json:"sta"`
}

// ListResponse is a list of entries with their count
type ListResponse struct {
	Boards []Board `json:"boards"`
	Count  int     `json:"count"`
}

// ListByItem returns the entries of type posted on iid, newest first
func (s *Service) ListByItem(ctx context.Context, iid uint, boardType string) (*ListResponse, error) {
	if boardType != TypeReview && boardType != TypeQnA {
		return nil, ErrInvalidType
	}

	var boards []Board
	err := s.db.WithContext(ctx).
		Where("iid = ? AND type = ?", iid, boardType).
		Order("reg_date DESC, bid DESC").
		Find(&boards).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list boards: %w", err)
	}

	return &ListResponse{Boards: boards, Count: len(boards)}, nil
}

// Get returns one entry
func (s *Service) Get(ctx context.Context, bid uint) (*Board, error) {
	var b Board
	if err := s.db.WithContext(ctx).Where("bid = ?", bid).First(&b).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBoardNotFound
		}
		return nil, fmt.Errorf("failed to get board: %w", err)
	}
	return &b, nil
}

// Create posts an entry as email
func (s *Service) Create(ctx context.Context, email string, req *CreateRequest) (*Board, error) {
	b := &Board{
		IID:     req.IID,
		Email:   email,
		Type:    req.Type,
		TypeQnA: req.TypeQnA,
		Title:   req.Title,
		Content: req.Content,
		Img:     req.Img,
		Sta:     req.Sta,
	}
	if err := validate(b); err != nil {
		return nil, err
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&item.Item{}).Where("iid = ?", b.IID).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return item.ErrItemNotFound
		}

		if err := tx.Create(b).Error; err != nil {
			return err
		}
		if b.IsReview() {
			return s.recomputeStars(tx, b.IID)
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, item.ErrItemNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to create board: %w", err)
	}

	s.afterWrite(b, "Board entry created")
	return b, nil
}

// Update edits an entry owned by email
func (s *Service) Update(ctx context.Context, email string, bid uint, req *UpdateRequest) (*Board, error) {
	b, err := s.Get(ctx, bid)
	if err != nil {
		return nil, err
	}
	if b.Email != email {
		return nil, ErrNotOwner
	}

	if req.TypeQnA != nil {
		b.TypeQnA = *req.TypeQnA
	}
	if req.Title != nil {
		b.Title = *req.Title
	}
	if req.Content != nil {
		b.Content = *req.Content
	}
	if req.Img != nil {
		b.Img = *req.Img
	}
	if req.Sta != nil {
		b.Sta = *req.Sta
	}
	if err := validate(b); err != nil {
		return nil, err
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(b).Select("type_qna", "title", "content", "img", "sta").Updates(b).Error; err != nil {
			return err
		}
		if b.IsReview() {
			return s.recomputeStars(tx, b.IID)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to update board: %w", err)
	}

	s.afterWrite(b, "Board entry updated")
	return b, nil
}

// Delete soft deletes an entry. Admins may delete any entry.
func (s *Service) Delete(ctx context.Context, email string, isAdmin bool, bid uint) error {
	b, err := s.Get(ctx, bid)
	if err != nil {
		return err
	}
	if b.Email != email && !isAdmin {
		return ErrNotOwner
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(b).Error; err != nil {
			return err
		}
		if b.IsReview() {
			return s.recomputeStars(tx, b.IID)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to delete board: %w", err)
	}

	s.afterWrite(b, "Board entry deleted")
	return nil
}

// recomputeStars stores the average review star, rounded to one decimal
func (s *Service) recomputeStars(tx *gorm.DB, iid uint) error {
	var avg float64
	err := tx.Model(&Board{}).
		Select("COALESCE(ROUND(AVG(sta)::numeric, 1), 0)").
		Where("iid = ? AND type = ?", iid, TypeReview).
		Scan(&avg).Error
	if err != nil {
		return fmt.Errorf("failed to average stars: %w", err)
	}

	return tx.Model(&item.Item{}).Where("iid = ?", iid).Update("total_sta", avg).Error
}

func (s *Service) afterWrite(b *Board, msg string) {
	if b.IsReview() && s.items != nil {
		s.items.Invalidate(b.IID)
	}
	s.logger.WithFields(logrus.Fields{"bid": b.BID, "iid": b.IID, "type": b.Type}).Info(msg)
}

func validate(b *Board) error {
	switch b.Type {
	case TypeReview:
		if b.Sta < 1 || b.Sta > 5 {
			return ErrInvalidStar
		}
	case TypeQnA:
		b.Sta = 0
	default:
		return ErrInvalidType
	}
	return nil
}
