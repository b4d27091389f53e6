package repository

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"crm-dashboard-service/internal/model"
	"crm-dashboard-service/internal/testdata/mockdb"
)

type IntegrationRepositoryTestSuite struct {
	suite.Suite

	conn       *mockdb.Conn
	repository *integrationRepository
}

func TestIntegrationRepository(t *testing.T) {
	suite.Run(t, new(IntegrationRepositoryTestSuite))
}

func (s *IntegrationRepositoryTestSuite) SetupTest() {
	s.conn = &mockdb.Conn{}
	s.repository = &integrationRepository{db: s.conn}
}

func (s *IntegrationRepositoryTestSuite) TearDownTest() {
	s.conn.AssertExpectations(s.T())
}

// integrationRow builds a Scan func that fills every integration column.
func integrationRow(in model.Integration) *mockdb.Row {
	row := &mockdb.Row{}
	row.On("Scan", mock.Anything).Return(func(dest ...any) {
		*dest[0].(*uuid.UUID) = in.ID
		*dest[1].(*uuid.UUID) = in.UserID
		*dest[2].(*string) = in.Provider
		*dest[3].(*string) = in.PageID
		*dest[4].(*string) = in.PageName
		*dest[5].(*string) = in.ProviderUserID
		*dest[6].(*string) = in.AccessToken
		*dest[7].(*[]string) = in.Permissions
		*dest[8].(**time.Time) = in.TokenExpiresAt
		*dest[9].(*bool) = in.IsActive
		*dest[10].(*time.Time) = in.CreatedAt
		*dest[11].(*time.Time) = in.UpdatedAt
	}, nil)
	return row
}

func (s *IntegrationRepositoryTestSuite) TestUpsert_Success() {
	userID := uuid.New()
	stored := model.Integration{
		ID:          uuid.New(),
		UserID:      userID,
		Provider:    "facebook",
		PageID:      "p1",
		PageName:    "Page One",
		AccessToken: "page-token",
		Permissions: []string{"pages_show_list"},
		IsActive:    true,
	}
	s.conn.On("QueryRow",
		mock.Anything,
		upsertIntegrationQuery,
		mock.AnythingOfType("uuid.UUID"),
		userID,
		"facebook",
		"p1",
		"Page One",
		"fb-9",
		"page-token",
		[]string{"pages_show_list"},
		(*time.Time)(nil),
	).Return(integrationRow(stored)).Once()

	out, err := s.repository.Upsert(context.Background(), model.Integration{
		UserID:         userID,
		Provider:       "facebook",
		PageID:         "p1",
		PageName:       "Page One",
		ProviderUserID: "fb-9",
		AccessToken:    "page-token",
		Permissions:    []string{"pages_show_list"},
	})

	s.NoError(err)
	s.Equal(stored.ID, out.ID)
	s.True(out.IsActive)
}

func (s *IntegrationRepositoryTestSuite) TestGetByID_Success() {
	stored := model.Integration{ID: uuid.New(), PageID: "p1", IsActive: true}
	s.conn.On("QueryRow", mock.Anything, getIntegrationByIDQuery, stored.ID).
		Return(integrationRow(stored)).Once()

	out, err := s.repository.GetByID(context.Background(), stored.ID.String())

	s.NoError(err)
	s.Equal(stored.ID, out.ID)
}

func (s *IntegrationRepositoryTestSuite) TestGetByID_MalformedID() {
	_, err := s.repository.GetByID(context.Background(), "not-a-uuid")

	s.ErrorIs(err, ErrNotFound)
	s.conn.AssertNotCalled(s.T(), "QueryRow", mock.Anything, mock.Anything, mock.Anything)
}

func (s *IntegrationRepositoryTestSuite) TestGetByID_NotFound() {
	id := uuid.New()
	row := &mockdb.Row{}
	row.On("Scan", mock.Anything).Return(nil, pgx.ErrNoRows)
	s.conn.On("QueryRow", mock.Anything, getIntegrationByIDQuery, id).Return(row).Once()

	_, err := s.repository.GetByID(context.Background(), id.String())

	s.ErrorIs(err, ErrNotFound)
}

func (s *IntegrationRepositoryTestSuite) TestGetActiveByUser_NotFound() {
	userID := uuid.New()
	row := &mockdb.Row{}
	row.On("Scan", mock.Anything).Return(nil, pgx.ErrNoRows)
	s.conn.On("QueryRow", mock.Anything, getActiveIntegrationQuery, userID, "facebook").Return(row).Once()

	_, err := s.repository.GetActiveByUser(context.Background(), userID, "facebook")

	s.ErrorIs(err, ErrNotFound)
}

func (s *IntegrationRepositoryTestSuite) TestDeactivate_Success() {
	id := uuid.New()
	s.conn.On("Exec", mock.Anything, deactivateIntegrationQuery, id).
		Return(pgconn.NewCommandTag("UPDATE 1"), nil).Once()

	s.NoError(s.repository.Deactivate(context.Background(), id.String()))
}

func (s *IntegrationRepositoryTestSuite) TestDeactivate_NoRow() {
	id := uuid.New()
	s.conn.On("Exec", mock.Anything, deactivateIntegrationQuery, id).
		Return(pgconn.NewCommandTag("UPDATE 0"), nil).Once()

	err := s.repository.Deactivate(context.Background(), id.String())

	s.ErrorIs(err, ErrNotFound)
}

func (s *IntegrationRepositoryTestSuite) TestDeactivate_MalformedID() {
	err := s.repository.Deactivate(context.Background(), "not-a-uuid")

	s.ErrorIs(err, ErrNotFound)
	s.conn.AssertNotCalled(s.T(), "Exec", mock.Anything, mock.Anything, mock.Anything)
}
