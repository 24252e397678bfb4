package repositories

import (
	"context"
	"testing"
	"time"

	"crmhub/internal/models"

	"github.com/google/uuid"
	pgx "github.com/jackc/pgx/v5"
	pgxmock "github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
)

type InvoiceRepoTestSuite struct {
	suite.Suite
	mock    pgxmock.PgxPoolIface
	repo    InvoiceRepository
	context context.Context
}

func (suite *InvoiceRepoTestSuite) SetupTest() {
	mock, err := pgxmock.NewPool()
	assert.NoError(suite.T(), err)
	suite.mock = mock

	suite.repo = NewInvoiceRepo(mock)
	suite.context = context.Background()
}

func (suite *InvoiceRepoTestSuite) TearDownTest() {
	suite.mock.Close()
}

func TestInvoiceRepoTestSuite(t *testing.T) {
	suite.Run(t, new(InvoiceRepoTestSuite))
}

func (suite *InvoiceRepoTestSuite) invoiceRows(invoices ...*models.Invoice) *pgxmock.Rows {
	rows := pgxmock.NewRows([]string{"id", "customer_id", "amount", "currency", "status", "due_date", "issued_date", "description", "paid_date", "created_at", "updated_at"})
	for _, inv := range invoices {
		rows.AddRow(inv.ID, inv.CustomerID, inv.Amount, inv.Currency, inv.Status, inv.DueDate, inv.IssuedDate, inv.Description, inv.PaidDate, inv.CreatedAt, inv.UpdatedAt)
	}
	return rows
}

func testInvoice() *models.Invoice {
	now := time.Now()
	return &models.Invoice{
		ID:         uuid.New(),
		CustomerID: uuid.New(),
		Amount:     125000,
		Currency:   "USD",
		Status:     "sent",
		DueDate:    now.Add(30 * 24 * time.Hour),
		IssuedDate: now,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
}

func (suite *InvoiceRepoTestSuite) TestCreate_Success() {
	invoice := testInvoice()

	suite.mock.ExpectExec(`INSERT INTO invoices`).
		WithArgs(invoice.ID, invoice.CustomerID, invoice.Amount, invoice.Currency, invoice.Status, invoice.DueDate, invoice.IssuedDate, invoice.Description).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	err := suite.repo.Create(suite.context, invoice)
	assert.NoError(suite.T(), err)
}

func (suite *InvoiceRepoTestSuite) TestGetByID_Success() {
	invoice := testInvoice()

	suite.mock.ExpectQuery(`FROM invoices WHERE id`).
		WithArgs(invoice.ID).
		WillReturnRows(suite.invoiceRows(invoice))

	got, err := suite.repo.GetByID(suite.context, invoice.ID)
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), invoice.Amount, got.Amount)
	assert.Equal(suite.T(), invoice.CustomerID, got.CustomerID)
}

func (suite *InvoiceRepoTestSuite) TestGetByID_NotFound() {
	id := uuid.New()

	suite.mock.ExpectQuery(`FROM invoices WHERE id`).
		WithArgs(id).
		WillReturnError(pgx.ErrNoRows)

	got, err := suite.repo.GetByID(suite.context, id)
	assert.ErrorIs(suite.T(), err, pgx.ErrNoRows)
	assert.Nil(suite.T(), got)
}

func (suite *InvoiceRepoTestSuite) TestUpdate_Success() {
	invoice := testInvoice()
	paid := time.Now()
	invoice.Status = "paid"
	invoice.PaidDate = &paid

	suite.mock.ExpectExec(`UPDATE invoices`).
		WithArgs(invoice.CustomerID, invoice.Amount, invoice.Currency, invoice.Status, invoice.DueDate, invoice.Description, invoice.PaidDate, invoice.ID).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	err := suite.repo.Update(suite.context, invoice)
	assert.NoError(suite.T(), err)
}

func (suite *InvoiceRepoTestSuite) TestDelete_Success() {
	id := uuid.New()

	suite.mock.ExpectExec(`DELETE FROM invoices`).
		WithArgs(id).
		WillReturnResult(pgxmock.NewResult("DELETE", 1))

	err := suite.repo.Delete(suite.context, id)
	assert.NoError(suite.T(), err)
}

func (suite *InvoiceRepoTestSuite) TestListByCustomer_Success() {
	customerID := uuid.New()
	first := testInvoice()
	first.CustomerID = customerID
	second := testInvoice()
	second.CustomerID = customerID

	suite.mock.ExpectQuery(`FROM invoices WHERE customer_id`).
		WithArgs(customerID).
		WillReturnRows(suite.invoiceRows(first, second))

	invoices, err := suite.repo.ListByCustomer(suite.context, customerID)
	assert.NoError(suite.T(), err)
	assert.Len(suite.T(), invoices, 2)
}

func (suite *InvoiceRepoTestSuite) TestMarkOverdue_ReturnsAffectedCount() {
	now := time.Now()

	suite.mock.ExpectExec(`UPDATE invoices`).
		WithArgs(now).
		WillReturnResult(pgxmock.NewResult("UPDATE", 4))

	count, err := suite.repo.MarkOverdue(suite.context, now)
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), int64(4), count)
}

func (suite *InvoiceRepoTestSuite) TestMarkOverdue_NothingToDo() {
	now := time.Now()

	suite.mock.ExpectExec(`UPDATE invoices`).
		WithArgs(now).
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	count, err := suite.repo.MarkOverdue(suite.context, now)
	assert.NoError(suite.T(), err)
	assert.Zero(suite.T(), count)
}
