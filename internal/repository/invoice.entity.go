package repository

import (
	"time"

	"github.com/nimasrn/collection-ledger/internal/model"
)

type InvoiceEntity struct {
	ID         string               `db:"id"          gorm:"primaryKey;column:id;type:uuid"`
	CustomerID string               `db:"customer_id" gorm:"column:customer_id;not null;index"`
	Amount     float64              `db:"amount"      gorm:"column:amount;not null"`
	Status     string               `db:"status"      gorm:"column:status;not null;default:PENDING;index"`
	DueDate    time.Time            `db:"due_date"    gorm:"column:due_date;not null"`
	CreatedAt  time.Time            `db:"created_at"  gorm:"column:created_at;autoCreateTime"`
	Items      []*InvoiceItemEntity `gorm:"foreignKey:InvoiceID"`
}

func (InvoiceEntity) TableName() string {
	return "invoices"
}

type InvoiceItemEntity struct {
	ID        string  `db:"id"         gorm:"primaryKey;column:id;type:uuid"`
	InvoiceID string  `db:"invoice_id" gorm:"column:invoice_id;not null;index"`
	Name      string  `db:"name"       gorm:"column:name;not null"`
	Quantity  int     `db:"quantity"   gorm:"column:quantity;not null"`
	Price     float64 `db:"price"      gorm:"column:price;not null"`
}

func (InvoiceItemEntity) TableName() string {
	return "invoice_items"
}

func toInvoiceEntity(m *model.Invoice) *InvoiceEntity {
	if m == nil {
		return nil
	}
	e := &InvoiceEntity{
		ID:         m.ID,
		CustomerID: m.CustomerID,
		Amount:     m.Amount,
		Status:     string(m.Status),
		DueDate:    m.DueDate,
		CreatedAt:  m.CreatedAt,
	}
	for _, it := range m.Items {
		e.Items = append(e.Items, &InvoiceItemEntity{
			ID:        it.ID,
			InvoiceID: it.InvoiceID,
			Name:      it.Name,
			Quantity:  it.Quantity,
			Price:     it.Price,
		})
	}
	return e
}

func toInvoiceModel(e *InvoiceEntity) *model.Invoice {
	if e == nil {
		return nil
	}
	m := &model.Invoice{
		ID:         e.ID,
		CustomerID: e.CustomerID,
		Amount:     e.Amount,
		Status:     model.InvoiceStatus(e.Status),
		DueDate:    e.DueDate,
		CreatedAt:  e.CreatedAt,
	}
	for _, it := range e.Items {
		m.Items = append(m.Items, &model.InvoiceItem{
			ID:        it.ID,
			InvoiceID: it.InvoiceID,
			Name:      it.Name,
			Quantity:  it.Quantity,
			Price:     it.Price,
		})
	}
	return m
}

func toInvoiceModels(entities []*InvoiceEntity) []*model.Invoice {
	if entities == nil {
		return nil
	}
	models := make([]*model.Invoice, len(entities))
	for i, e := range entities {
		models[i] = toInvoiceModel(e)
	}
	return models
}
