package api

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Umair-Ahm3d/Club-Lit/internal/chat"
	"github.com/Umair-Ahm3d/Club-Lit/internal/fault"
	"github.com/Umair-Ahm3d/Club-Lit/internal/models"
)

type fakeClubRepo struct {
	clubs    map[uuid.UUID]*models.Club
	byMember map[uuid.UUID][]models.Club
}

func newFakeClubRepo() *fakeClubRepo {
	return &fakeClubRepo{
		clubs:    make(map[uuid.UUID]*models.Club),
		byMember: make(map[uuid.UUID][]models.Club),
	}
}

func (f *fakeClubRepo) add(name string, bookID, creatorID uuid.UUID) *models.Club {
	club := &models.Club{ID: uuid.New(), Name: name, BookID: bookID, CreatorID: creatorID}
	f.clubs[club.ID] = club
	return club
}

func (f *fakeClubRepo) Create(ctx context.Context, name, description string, bookID, creatorID uuid.UUID) (*models.Club, error) {
	club := f.add(name, bookID, creatorID)
	club.Description = description
	return club, nil
}

func (f *fakeClubRepo) GetByID(ctx context.Context, clubID uuid.UUID) (*models.Club, error) {
	return f.clubs[clubID], nil
}

func (f *fakeClubRepo) List(ctx context.Context) ([]models.Club, error) {
	out := make([]models.Club, 0, len(f.clubs))
	for _, c := range f.clubs {
		out = append(out, *c)
	}
	return out, nil
}

func (f *fakeClubRepo) ListByMember(ctx context.Context, userID uuid.UUID) ([]models.Club, error) {
	return f.byMember[userID], nil
}

func (f *fakeClubRepo) Update(ctx context.Context, clubID uuid.UUID, name, description string) (*models.Club, error) {
	club := f.clubs[clubID]
	if club == nil {
		return nil, nil
	}
	club.Name, club.Description = name, description
	return club, nil
}

func (f *fakeClubRepo) Delete(ctx context.Context, clubID uuid.UUID) error {
	delete(f.clubs, clubID)
	return nil
}

type fakeMemberRepo struct {
	rows map[uuid.UUID][]models.ClubMember
}

func newFakeMemberRepo() *fakeMemberRepo {
	return &fakeMemberRepo{rows: make(map[uuid.UUID][]models.ClubMember)}
}

func (f *fakeMemberRepo) Add(ctx context.Context, clubID, userID uuid.UUID) error {
	f.rows[clubID] = append(f.rows[clubID], models.ClubMember{
		ClubID:   clubID,
		UserID:   userID,
		JoinedAt: time.Now(),
	})
	return nil
}

func (f *fakeMemberRepo) Remove(ctx context.Context, clubID, userID uuid.UUID) error {
	kept := f.rows[clubID][:0]
	for _, m := range f.rows[clubID] {
		if m.UserID != userID {
			kept = append(kept, m)
		}
	}
	f.rows[clubID] = kept
	return nil
}

func (f *fakeMemberRepo) List(ctx context.Context, clubID uuid.UUID) ([]models.ClubMember, error) {
	return f.rows[clubID], nil
}

func (f *fakeMemberRepo) IsMember(ctx context.Context, clubID, userID uuid.UUID) (bool, error) {
	for _, m := range f.rows[clubID] {
		if m.UserID == userID {
			return true, nil
		}
	}
	return false, nil
}

func clubRouter(clubs *fakeClubRepo, books *fakeBookRepo, members *fakeMemberRepo, svc ChatService, userID uuid.UUID, admin bool) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := NewClubHandler(clubs, books, members, svc, zap.NewNop())

	r := gin.New()
	r.Use(asUser(userID, admin))
	r.POST("/v1/clubs", h.Create)
	r.GET("/v1/clubs", h.List)
	r.GET("/v1/clubs/:id", h.GetByID)
	r.PUT("/v1/clubs/:id", h.Update)
	r.DELETE("/v1/clubs/:id", h.Delete)
	r.POST("/v1/clubs/:id/join", h.Join)
	r.POST("/v1/clubs/:id/leave", h.Leave)
	r.GET("/v1/clubs/:id/members", h.Members)
	r.DELETE("/v1/clubs/:id/members/:userId", h.RemoveMember)
	r.GET("/v1/clubs/:id/online", h.Online)
	return r
}

func TestCreateClubJoinsCreator(t *testing.T) {
	creator := uuid.New()
	books := newFakeBookRepo()
	book := books.add("Dune", "Frank Herbert", "sci-fi", uuid.New())
	clubs := newFakeClubRepo()

	var joinedClub uuid.UUID
	var joinedBy chat.Actor
	svc := &fakeChat{
		join: func(clubID uuid.UUID, actor chat.Actor) error {
			joinedClub, joinedBy = clubID, actor
			return nil
		},
	}
	r := clubRouter(clubs, books, newFakeMemberRepo(), svc, creator, false)

	w := doRequest(t, r, http.MethodPost, "/v1/clubs", gin.H{
		"name":   "Dune Readers",
		"bookId": book.ID,
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("status = %d, want %d: %s", w.Code, http.StatusCreated, w.Body.String())
	}

	var club models.Club
	if err := json.Unmarshal(w.Body.Bytes(), &club); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if club.CreatorID != creator {
		t.Errorf("creator = %s, want %s", club.CreatorID, creator)
	}
	if joinedClub != club.ID || joinedBy.ID != creator {
		t.Errorf("join call = (%s, %s), want (%s, %s)", joinedClub, joinedBy.ID, club.ID, creator)
	}
}

func TestCreateClubUnknownBook(t *testing.T) {
	r := clubRouter(newFakeClubRepo(), newFakeBookRepo(), newFakeMemberRepo(), &fakeChat{}, uuid.New(), false)

	w := doRequest(t, r, http.MethodPost, "/v1/clubs", gin.H{
		"name":   "Ghost Readers",
		"bookId": uuid.New(),
	})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusBadRequest)
	}
}

func TestListClubsMine(t *testing.T) {
	userID := uuid.New()
	clubs := newFakeClubRepo()
	clubs.add("All Hands", uuid.New(), uuid.New())
	mine := models.Club{ID: uuid.New(), Name: "Mine"}
	clubs.byMember[userID] = []models.Club{mine}

	r := clubRouter(clubs, newFakeBookRepo(), newFakeMemberRepo(), &fakeChat{}, userID, false)

	w := doRequest(t, r, http.MethodGet, "/v1/clubs?mine=true", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusOK)
	}
	var got []models.Club
	if err := json.Unmarshal(w.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(got) != 1 || got[0].ID != mine.ID {
		t.Errorf("clubs = %+v, want only %s", got, mine.ID)
	}
}

func TestGetClubDetail(t *testing.T) {
	clubs := newFakeClubRepo()
	club := clubs.add("Dune Readers", uuid.New(), uuid.New())
	members := newFakeMemberRepo()
	members.Add(context.Background(), club.ID, club.CreatorID)
	members.Add(context.Background(), club.ID, uuid.New())

	r := clubRouter(clubs, newFakeBookRepo(), members, &fakeChat{}, uuid.New(), false)

	w := doRequest(t, r, http.MethodGet, "/v1/clubs/"+club.ID.String(), nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d: %s", w.Code, http.StatusOK, w.Body.String())
	}
	var detail clubDetail
	if err := json.Unmarshal(w.Body.Bytes(), &detail); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if detail.Club == nil || detail.Club.ID != club.ID {
		t.Fatalf("club = %+v, want %s", detail.Club, club.ID)
	}
	if len(detail.Members) != 2 {
		t.Errorf("members = %d, want 2", len(detail.Members))
	}
}

func TestGetClubUnknown(t *testing.T) {
	r := clubRouter(newFakeClubRepo(), newFakeBookRepo(), newFakeMemberRepo(), &fakeChat{}, uuid.New(), false)

	w := doRequest(t, r, http.MethodGet, "/v1/clubs/"+uuid.NewString(), nil)
	if w.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusNotFound)
	}
}

// Only the creator or an admin may update or delete a club.
func TestUpdateClubOwnerGuard(t *testing.T) {
	creator := uuid.New()
	clubs := newFakeClubRepo()
	club := clubs.add("Dune Readers", uuid.New(), creator)

	cases := []struct {
		name   string
		caller uuid.UUID
		admin  bool
		want   int
	}{
		{"stranger", uuid.New(), false, http.StatusForbidden},
		{"creator", creator, false, http.StatusOK},
		{"admin", uuid.New(), true, http.StatusOK},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			r := clubRouter(clubs, newFakeBookRepo(), newFakeMemberRepo(), &fakeChat{}, tc.caller, tc.admin)
			w := doRequest(t, r, http.MethodPut, "/v1/clubs/"+club.ID.String(), gin.H{"name": "Renamed"})
			if w.Code != tc.want {
				t.Fatalf("status = %d, want %d: %s", w.Code, tc.want, w.Body.String())
			}
		})
	}
}

func TestJoinClubRoute(t *testing.T) {
	userID := uuid.New()
	clubID := uuid.New()

	var joined uuid.UUID
	svc := &fakeChat{
		join: func(id uuid.UUID, actor chat.Actor) error {
			joined = id
			return nil
		},
	}
	r := clubRouter(newFakeClubRepo(), newFakeBookRepo(), newFakeMemberRepo(), svc, userID, false)

	w := doRequest(t, r, http.MethodPost, "/v1/clubs/"+clubID.String()+"/join", nil)
	if w.Code != http.StatusNoContent {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusNoContent)
	}
	if joined != clubID {
		t.Errorf("joined = %s, want %s", joined, clubID)
	}
}

func TestLeaveClubCreatorRefused(t *testing.T) {
	svc := &fakeChat{
		leave: func(uuid.UUID, chat.Actor) error {
			return fault.Permission("the club creator cannot leave the club")
		},
	}
	r := clubRouter(newFakeClubRepo(), newFakeBookRepo(), newFakeMemberRepo(), svc, uuid.New(), false)

	w := doRequest(t, r, http.MethodPost, "/v1/clubs/"+uuid.NewString()+"/leave", nil)
	if w.Code != http.StatusForbidden {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusForbidden)
	}
}

func TestRemoveMemberRoute(t *testing.T) {
	clubID := uuid.New()
	target := uuid.New()

	var gotClub, gotTarget uuid.UUID
	svc := &fakeChat{
		remove: func(clubID uuid.UUID, actor chat.Actor, targetID uuid.UUID) error {
			gotClub, gotTarget = clubID, targetID
			return nil
		},
	}
	r := clubRouter(newFakeClubRepo(), newFakeBookRepo(), newFakeMemberRepo(), svc, uuid.New(), false)

	w := doRequest(t, r, http.MethodDelete, "/v1/clubs/"+clubID.String()+"/members/"+target.String(), nil)
	if w.Code != http.StatusNoContent {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusNoContent)
	}
	if gotClub != clubID || gotTarget != target {
		t.Errorf("remove call = (%s, %s), want (%s, %s)", gotClub, gotTarget, clubID, target)
	}
}

func TestListMembers(t *testing.T) {
	clubs := newFakeClubRepo()
	club := clubs.add("Dune Readers", uuid.New(), uuid.New())
	members := newFakeMemberRepo()
	members.Add(context.Background(), club.ID, uuid.New())
	members.Add(context.Background(), club.ID, uuid.New())

	r := clubRouter(clubs, newFakeBookRepo(), members, &fakeChat{}, uuid.New(), false)

	w := doRequest(t, r, http.MethodGet, "/v1/clubs/"+club.ID.String()+"/members", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusOK)
	}
	var got []models.ClubMember
	if err := json.Unmarshal(w.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(got) != 2 {
		t.Errorf("members = %d, want 2", len(got))
	}
}

func TestListMembersUnknownClub(t *testing.T) {
	r := clubRouter(newFakeClubRepo(), newFakeBookRepo(), newFakeMemberRepo(), &fakeChat{}, uuid.New(), false)

	w := doRequest(t, r, http.MethodGet, "/v1/clubs/"+uuid.NewString()+"/members", nil)
	if w.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusNotFound)
	}
}

func TestOnlineRoute(t *testing.T) {
	clubID := uuid.New()
	ids := []uuid.UUID{uuid.New(), uuid.New()}

	svc := &fakeChat{
		online: func(uuid.UUID, chat.Actor) ([]uuid.UUID, error) {
			return ids, nil
		},
	}
	r := clubRouter(newFakeClubRepo(), newFakeBookRepo(), newFakeMemberRepo(), svc, uuid.New(), false)

	w := doRequest(t, r, http.MethodGet, "/v1/clubs/"+clubID.String()+"/online", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusOK)
	}
	var resp map[string][]uuid.UUID
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(resp["online"]) != 2 {
		t.Errorf("online = %v, want 2 ids", resp["online"])
	}
}
