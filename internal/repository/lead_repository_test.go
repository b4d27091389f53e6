package repository

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"crm-dashboard-service/internal/model"
	"crm-dashboard-service/internal/testdata/mockdb"
)

// Interface compliance check
var _ DB = &mockdb.Conn{}

type LeadRepositoryTestSuite struct {
	suite.Suite

	conn       *mockdb.Conn
	repository *leadRepository
}

func TestLeadRepository(t *testing.T) {
	suite.Run(t, new(LeadRepositoryTestSuite))
}

func (s *LeadRepositoryTestSuite) SetupTest() {
	s.conn = &mockdb.Conn{}
	s.repository = &leadRepository{db: s.conn}
}

func (s *LeadRepositoryTestSuite) TearDownTest() {
	s.conn.AssertExpectations(s.T())
}

func (s *LeadRepositoryTestSuite) TestUpsert_Success() {
	integrationID := uuid.New()
	created := time.Date(2024, 5, 10, 8, 30, 0, 0, time.UTC)
	row := model.LeadRow{
		IntegrationID:  integrationID,
		ExternalLeadID: "lead-1",
		FormID:         "form-1",
		FormName:       "Contact",
		FieldData:      map[string]string{"email": "ada@example.com"},
		CreatedTime:    created,
	}

	fieldData, err := marshalFieldData(row.FieldData)
	s.Require().NoError(err)

	s.conn.On("Exec",
		mock.Anything,
		upsertLeadQuery,
		mock.AnythingOfType("uuid.UUID"),
		integrationID,
		"lead-1",
		"form-1",
		"Contact",
		fieldData,
		model.LeadStatusNew, // every insert starts at new
		created,
	).Return(pgconn.NewCommandTag("INSERT 0 1"), nil).Once()

	s.NoError(s.repository.Upsert(context.Background(), row))
}

func (s *LeadRepositoryTestSuite) TestUpsert_NilFieldData() {
	s.conn.On("Exec",
		mock.Anything,
		upsertLeadQuery,
		mock.AnythingOfType("uuid.UUID"),
		mock.Anything,
		"lead-1",
		"",
		"",
		[]byte("{}"),
		model.LeadStatusNew,
		mock.Anything,
	).Return(pgconn.NewCommandTag("INSERT 0 1"), nil).Once()

	s.NoError(s.repository.Upsert(context.Background(), model.LeadRow{ExternalLeadID: "lead-1"}))
}

// TestUpsert_ConflictPreservesStatus pins the one property the upsert must
// keep: a re-synced lead refreshes its payload but never its status.
func (s *LeadRepositoryTestSuite) TestUpsert_ConflictPreservesStatus() {
	s.Contains(upsertLeadQuery, "ON CONFLICT (external_lead_id)")
	s.Contains(upsertLeadQuery, "field_data = EXCLUDED.field_data")
	s.NotContains(upsertLeadQuery, "status = EXCLUDED.status")
}

func (s *LeadRepositoryTestSuite) TestListByIntegration_Success() {
	integrationID := uuid.New()
	leadID := uuid.New()
	created := time.Date(2024, 5, 10, 8, 30, 0, 0, time.UTC)

	rows := &mockdb.Rows{}
	rows.On("Next").Return(true).Once()
	rows.On("Next").Return(false).Once()
	rows.On("Scan", mock.Anything).Return(func(dest ...any) {
		*dest[0].(*uuid.UUID) = leadID
		*dest[1].(*uuid.UUID) = integrationID
		*dest[2].(*string) = "lead-1"
		*dest[3].(*string) = "form-1"
		*dest[4].(*string) = "Contact"
		*dest[5].(*[]byte) = []byte(`{"email":"ada@example.com"}`)
		*dest[6].(*string) = model.LeadStatusContacted
		*dest[7].(*time.Time) = created
		*dest[8].(*time.Time) = created
	}, nil)
	rows.On("Err").Return(nil)
	rows.On("Close").Return()

	s.conn.On("Query", mock.Anything, listLeadsQuery, integrationID).Return(rows, nil).Once()

	out, err := s.repository.ListByIntegration(context.Background(), integrationID)

	s.NoError(err)
	s.Require().Len(out, 1)
	s.Equal("lead-1", out[0].ExternalLeadID)
	s.Equal(map[string]string{"email": "ada@example.com"}, out[0].FieldData)
	s.Equal(model.LeadStatusContacted, out[0].Status)
}

func (s *LeadRepositoryTestSuite) TestUpdateStatus_Success() {
	id := uuid.New()
	s.conn.On("Exec", mock.Anything, updateLeadStatusQuery, id, model.LeadStatusQualified).
		Return(pgconn.NewCommandTag("UPDATE 1"), nil).Once()

	s.NoError(s.repository.UpdateStatus(context.Background(), id.String(), model.LeadStatusQualified))
}

func (s *LeadRepositoryTestSuite) TestUpdateStatus_NoRow() {
	id := uuid.New()
	s.conn.On("Exec", mock.Anything, updateLeadStatusQuery, id, model.LeadStatusNew).
		Return(pgconn.NewCommandTag("UPDATE 0"), nil).Once()

	err := s.repository.UpdateStatus(context.Background(), id.String(), model.LeadStatusNew)

	s.ErrorIs(err, ErrNotFound)
}

func (s *LeadRepositoryTestSuite) TestUpdateStatus_MalformedID() {
	err := s.repository.UpdateStatus(context.Background(), "not-a-uuid", model.LeadStatusNew)

	s.ErrorIs(err, ErrNotFound)
	s.conn.AssertNotCalled(s.T(), "Exec", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}
