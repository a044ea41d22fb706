package service

import (
	"context"

	"connectrpc.com/connect"

	"github.com/mmynk/roomledger/internal/api"
	"github.com/mmynk/roomledger/internal/ledger"
)

var _ api.MemberServiceHandler = (*MemberService)(nil)

// MemberService implements the Connect MemberService.
type MemberService struct {
	ledger    *ledger.Service
	validator *api.Validator
}

func NewMemberService(l *ledger.Service, v *api.Validator) *MemberService {
	return &MemberService{ledger: l, validator: v}
}

func (s *MemberService) CreateMember(ctx context.Context, req *connect.Request[api.CreateMemberRequest]) (*connect.Response[api.MemberResponse], error) {
	if err := validate(s.validator, req.Msg); err != nil {
		return nil, fail("CreateMember", err)
	}
	member, err := s.ledger.CreateMember(ctx, req.Msg.Name)
	if err != nil {
		return nil, fail("CreateMember", err, "name", req.Msg.Name)
	}
	return connect.NewResponse(&api.MemberResponse{Member: api.ToMember(member)}), nil
}

func (s *MemberService) GetMember(ctx context.Context, req *connect.Request[api.GetMemberRequest]) (*connect.Response[api.MemberResponse], error) {
	if err := validate(s.validator, req.Msg); err != nil {
		return nil, fail("GetMember", err)
	}
	member, err := s.ledger.GetMember(ctx, req.Msg.MemberID)
	if err != nil {
		return nil, fail("GetMember", err, "member_id", req.Msg.MemberID)
	}
	return connect.NewResponse(&api.MemberResponse{Member: api.ToMember(member)}), nil
}

// SearchMembers matches a case-insensitive substring; an empty name lists everyone.
func (s *MemberService) SearchMembers(ctx context.Context, req *connect.Request[api.SearchMembersRequest]) (*connect.Response[api.SearchMembersResponse], error) {
	members, err := s.ledger.FindMembersByName(ctx, req.Msg.Name)
	if err != nil {
		return nil, fail("SearchMembers", err, "name", req.Msg.Name)
	}
	return connect.NewResponse(&api.SearchMembersResponse{Members: api.ToMembers(members)}), nil
}
