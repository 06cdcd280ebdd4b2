package fixtures

import (
	"time"

	"github.com/nimasrn/collection-ledger/internal/model"
)

var (
	TestCustomerHealthy = model.Customer{
		ID:          "11111111-1111-1111-1111-111111111111",
		Name:        "Corner Grocery",
		Balance:     0,
		CreditScore: 90,
		RiskLevel:   model.RiskLow,
	}

	TestCustomerSlowPayer = model.Customer{
		ID:          "22222222-2222-2222-2222-222222222222",
		Name:        "Riverside Cafe",
		Balance:     1200,
		CreditScore: 55,
		RiskLevel:   model.RiskMedium,
	}

	TestCustomerDelinquent = model.Customer{
		ID:          "33333333-3333-3333-3333-333333333333",
		Name:        "Harbor Warehouse",
		Balance:     5000,
		CreditScore: 20,
		RiskLevel:   model.RiskCritical,
	}
)

func NewTestCollection(riderID, customerID string, amount float64) *model.Collection {
	return &model.Collection{
		RiderID:    riderID,
		CustomerID: customerID,
		Amount:     amount,
		Status:     model.CollectionStatusPending,
		CreatedAt:  time.Now(),
	}
}

func NewTestInvoice(customerID string, amount float64, due time.Time) *model.Invoice {
	return &model.Invoice{
		CustomerID: customerID,
		Amount:     amount,
		Status:     model.InvoiceStatusPending,
		DueDate:    due,
		Items: []*model.InvoiceItem{
			{Name: "goods", Quantity: 1, Price: amount},
		},
	}
}
