package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/nimasrn/collection-ledger/internal/model"
	"github.com/nimasrn/collection-ledger/pkg/pg"
	"gorm.io/gorm"
)

var (
	ErrCollectionNotFound = errors.New("collection not found")
	// ErrConcurrentUpdate means the guarded transition matched no row: the
	// collection was decided by a concurrent caller between read and write.
	ErrConcurrentUpdate = errors.New("concurrent update detected")
)

type CollectionRepository struct {
	*pg.DB
}

func NewCollectionRepository(db *pg.DB) *CollectionRepository {
	return &CollectionRepository{
		db,
	}
}

func (r *CollectionRepository) Create(ctx context.Context, c *model.Collection) (*model.Collection, error) {
	entity := toCollectionEntity(c)
	if entity.ID == "" {
		entity.ID = uuid.NewString()
	}
	if entity.Status == "" {
		entity.Status = string(model.CollectionStatusPending)
	}

	if err := r.Write(ctx).WithContext(ctx).Create(entity).Error; err != nil {
		return nil, err
	}

	return toCollectionModel(entity), nil
}

func (r *CollectionRepository) GetByID(ctx context.Context, id string) (*model.Collection, error) {
	var entity CollectionEntity
	err := r.Read(ctx).WithContext(ctx).
		Where("id = ?", id).
		First(&entity).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCollectionNotFound
		}
		return nil, err
	}
	return toCollectionModel(&entity), nil
}

// Transition moves a collection from one status to another with a guarded
// update. The WHERE on the old status makes the state machine safe under
// concurrent adjudication: only one of two racing approvals matches the row.
func (r *CollectionRepository) Transition(ctx context.Context, id string, from, to model.CollectionStatus) error {
	result := r.Write(ctx).WithContext(ctx).
		Model(&CollectionEntity{}).
		Where("id = ? AND status = ?", id, string(from)).
		Update("status", string(to))

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrConcurrentUpdate
	}
	return nil
}

// ListByRider returns the rider's collections joined with the customer name,
// newest first.
func (r *CollectionRepository) ListByRider(ctx context.Context, riderID string) ([]*model.CollectionWithCustomer, error) {
	var rows []*collectionWithCustomerRow
	err := r.Read(ctx).WithContext(ctx).
		Table("collections").
		Select("collections.*, customers.name AS customer_name").
		Joins("JOIN customers ON customers.id = collections.customer_id").
		Where("collections.rider_id = ?", riderID).
		Order("collections.created_at DESC").
		Find(&rows).
		Error
	if err != nil {
		return nil, err
	}

	out := make([]*model.CollectionWithCustomer, len(rows))
	for i, row := range rows {
		out[i] = &model.CollectionWithCustomer{
			Collection:   *toCollectionModel(&row.CollectionEntity),
			CustomerName: row.CustomerName,
		}
	}
	return out, nil
}

// ListPendingForManager returns PENDING collections whose rider reports to
// the manager, joined with rider and customer, newest first.
func (r *CollectionRepository) ListPendingForManager(ctx context.Context, managerID string) ([]*model.PendingCollection, error) {
	var entities []*CollectionEntity
	err := r.Read(ctx).WithContext(ctx).
		Table("collections").
		Select("collections.*").
		Joins("JOIN users ON users.id = collections.rider_id").
		Where("collections.status = ? AND users.manager_id = ?", string(model.CollectionStatusPending), managerID).
		Order("collections.created_at DESC").
		Find(&entities).
		Error
	if err != nil {
		return nil, err
	}
	if len(entities) == 0 {
		return []*model.PendingCollection{}, nil
	}

	riderIDs := make([]string, 0, len(entities))
	customerIDs := make([]string, 0, len(entities))
	for _, e := range entities {
		riderIDs = append(riderIDs, e.RiderID)
		customerIDs = append(customerIDs, e.CustomerID)
	}

	var riders []*UserEntity
	if err := r.Read(ctx).WithContext(ctx).Where("id IN ?", riderIDs).Find(&riders).Error; err != nil {
		return nil, err
	}
	ridersByID := make(map[string]*model.User, len(riders))
	for _, u := range riders {
		ridersByID[u.ID] = toUserModel(u)
	}

	var customers []*CustomerEntity
	if err := r.Read(ctx).WithContext(ctx).Where("id IN ?", customerIDs).Find(&customers).Error; err != nil {
		return nil, err
	}
	customersByID := make(map[string]*model.Customer, len(customers))
	for _, c := range customers {
		customersByID[c.ID] = toCustomerModel(c)
	}

	out := make([]*model.PendingCollection, len(entities))
	for i, e := range entities {
		out[i] = &model.PendingCollection{
			Collection: *toCollectionModel(e),
			Rider:      ridersByID[e.RiderID],
			Customer:   customersByID[e.CustomerID],
		}
	}
	return out, nil
}

// SumByCustomer totals collection amounts for the customer across the given
// statuses. Feeds the risk engine's money-received term.
func (r *CollectionRepository) SumByCustomer(ctx context.Context, customerID string, statuses []model.CollectionStatus) (float64, error) {
	raw := make([]string, len(statuses))
	for i, s := range statuses {
		raw[i] = string(s)
	}

	var sum float64
	err := r.Read(ctx).WithContext(ctx).
		Model(&CollectionEntity{}).
		Select("COALESCE(SUM(amount), 0)").
		Where("customer_id = ? AND status IN ?", customerID, raw).
		Scan(&sum).
		Error
	return sum, err
}

// CountByCustomer counts the customer's collections in the given statuses.
func (r *CollectionRepository) CountByCustomer(ctx context.Context, customerID string, statuses []model.CollectionStatus) (int64, error) {
	raw := make([]string, len(statuses))
	for i, s := range statuses {
		raw[i] = string(s)
	}

	var count int64
	err := r.Read(ctx).WithContext(ctx).
		Model(&CollectionEntity{}).
		Where("customer_id = ? AND status IN ?", customerID, raw).
		Count(&count).
		Error
	return count, err
}

func (r *CollectionRepository) List(ctx context.Context, f model.CollectionFilter) ([]*model.Collection, error) {
	q := r.Read(ctx).WithContext(ctx).Model(&CollectionEntity{})

	if f.RiderID != nil {
		q = q.Where("rider_id = ?", *f.RiderID)
	}
	if f.CustomerID != nil {
		q = q.Where("customer_id = ?", *f.CustomerID)
	}
	if len(f.Statuses) > 0 {
		statuses := make([]string, len(f.Statuses))
		for i, s := range f.Statuses {
			statuses[i] = string(s)
		}
		q = q.Where("status IN ?", statuses)
	}
	if f.From != nil {
		q = q.Where("created_at >= ?", *f.From)
	}
	if f.To != nil {
		q = q.Where("created_at <= ?", *f.To)
	}

	var entities []*CollectionEntity
	if err := q.Order("created_at ASC").Find(&entities).Error; err != nil {
		return nil, err
	}
	return toCollectionModels(entities), nil
}
