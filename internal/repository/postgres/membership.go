package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Umair-Ahm3d/Club-Lit/internal/models"
)

type MembershipStore struct {
	pool *pgxpool.Pool
}

func NewMembershipStore(pool *pgxpool.Pool) *MembershipStore {
	return &MembershipStore{pool: pool}
}

// Add inserts the membership row. ON CONFLICT DO NOTHING makes a repeat
// join a silent success instead of a primary-key violation.
func (s *MembershipStore) Add(ctx context.Context, clubID, userID uuid.UUID) error {
	query := `
		INSERT INTO club_members (club_id, user_id)
		VALUES ($1, $2)
		ON CONFLICT (club_id, user_id) DO NOTHING`

	_, err := s.pool.Exec(ctx, query, clubID, userID)
	if err != nil {
		return fmt.Errorf("add member: %w", err)
	}
	return nil
}

// Remove deletes the membership row. Deleting a non-member removes zero
// rows, so a repeat leave is also a silent success.
func (s *MembershipStore) Remove(ctx context.Context, clubID, userID uuid.UUID) error {
	query := `
		DELETE FROM club_members
		WHERE club_id = $1 AND user_id = $2`

	_, err := s.pool.Exec(ctx, query, clubID, userID)
	if err != nil {
		return fmt.Errorf("remove member: %w", err)
	}
	return nil
}

func (s *MembershipStore) List(ctx context.Context, clubID uuid.UUID) ([]models.ClubMember, error) {
	query := `
		SELECT cm.club_id, cm.user_id, u.display_name, u.avatar, cm.joined_at
		FROM club_members cm
		JOIN users u ON u.id = cm.user_id
		WHERE cm.club_id = $1
		ORDER BY cm.joined_at`

	rows, err := s.pool.Query(ctx, query, clubID)
	if err != nil {
		return nil, fmt.Errorf("list members: %w", err)
	}
	defer rows.Close()

	members := make([]models.ClubMember, 0)
	for rows.Next() {
		var m models.ClubMember
		if err := rows.Scan(&m.ClubID, &m.UserID, &m.DisplayName, &m.Avatar, &m.JoinedAt); err != nil {
			return nil, fmt.Errorf("scan member: %w", err)
		}
		members = append(members, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate members: %w", err)
	}

	return members, nil
}

// IsMember runs before every send and socket subscribe, so it uses EXISTS
// to stop at the first matching row.
func (s *MembershipStore) IsMember(ctx context.Context, clubID, userID uuid.UUID) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1 FROM club_members
			WHERE club_id = $1 AND user_id = $2
		)`

	var exists bool
	err := s.pool.QueryRow(ctx, query, clubID, userID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check membership: %w", err)
	}
	return exists, nil
}
