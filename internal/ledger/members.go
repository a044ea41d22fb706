package ledger

import (
	"context"
	"strings"

	apperrors "github.com/mmynk/roomledger/internal/errors"
	"github.com/mmynk/roomledger/internal/models"
)

// CreateMember adds a member to the directory.
func (s *Service) CreateMember(ctx context.Context, name string) (*models.Member, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, apperrors.New(apperrors.CodeInvalidArgument, "member name is required")
	}

	member := &models.Member{Name: name, CreatedAt: s.clock().Unix()}
	if err := s.store.CreateMember(ctx, member); err != nil {
		return nil, apperrors.Wrap(apperrors.CodeInternal, "failed to create member", err)
	}
	return member, nil
}

// GetMember resolves a member by ID.
func (s *Service) GetMember(ctx context.Context, memberID string) (*models.Member, error) {
	member, err := s.store.GetMember(ctx, memberID)
	if err != nil {
		return nil, notFoundOr(err, "member", memberID, "get member")
	}
	return member, nil
}

// FindMembersByName matches a case-insensitive substring of member names.
func (s *Service) FindMembersByName(ctx context.Context, substring string) ([]*models.Member, error) {
	members, err := s.store.FindMembersByName(ctx, substring)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeInternal, "failed to find members", err)
	}
	return members, nil
}
