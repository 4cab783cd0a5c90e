package maintenance

import (
	"context"
	"fmt"
	"strings"
	"time"

	"family-hub-go/internal/domain/family"
	"github.com/google/uuid"
)

const recentCostWindow = 30 * 24 * time.Hour

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

type EquipmentInput struct {
	Name            string
	Type            *string
	Brand           *string
	Model           *string
	SerialNumber    *string
	PurchaseDate    *time.Time
	WarrantyExpiry  *time.Time
	ServiceProvider string
	Status          string
	OwnerID         *string
	Notes           string
	Documents       *string
}

type EquipmentUpdate struct {
	Name            *string
	Type            *string
	Brand           *string
	Model           *string
	SerialNumber    *string
	PurchaseDate    *time.Time
	WarrantyExpiry  *time.Time
	ServiceProvider *string
	Status          *string
	Notes           *string
	Documents       *string
}

type OrderInput struct {
	EquipmentID        string
	Title              string
	Description        string
	Status             string
	Priority           string
	ServiceProvider    string
	CompletionDate     *time.Time
	Cost               *float64
	WarrantyExpiration *time.Time
	WarrantyTerms      string
	InvoiceNumber      string
	Notes              string
	Documents          *string
}

type OrderUpdate struct {
	Title              *string
	Description        *string
	Status             *string
	Priority           *string
	ServiceProvider    *string
	CompletionDate     *time.Time
	Cost               *float64
	WarrantyExpiration *time.Time
	WarrantyTerms      *string
	InvoiceNumber      *string
	Notes              *string
	Documents          *string
}

func (s *Service) ListEquipment(ctx context.Context, scope family.Scope, equipmentType string) ([]Equipment, error) {
	if scope.IsEmpty() {
		return []Equipment{}, nil
	}
	return s.repo.ListEquipment(ctx, scope.FamilyIDs(), equipmentType)
}

func (s *Service) GetEquipment(ctx context.Context, scope family.Scope, equipmentID string) (*Equipment, error) {
	if scope.IsEmpty() {
		return nil, ErrEquipmentNotFound
	}
	return s.repo.GetEquipment(ctx, scope.FamilyIDs(), equipmentID)
}

// CreateEquipment registers equipment in the given family, defaulting the
// owner to the creating user.
func (s *Service) CreateEquipment(ctx context.Context, familyID, creatorID string, input EquipmentInput) (*Equipment, error) {
	input.Name = strings.TrimSpace(input.Name)
	if input.Name == "" {
		return nil, fmt.Errorf("name is required")
	}

	status := strings.ToUpper(strings.TrimSpace(input.Status))
	if status == "" {
		status = StatusOperational
	}

	owner := input.OwnerID
	if owner == nil || *owner == "" {
		owner = &creatorID
	}

	equipment := Equipment{
		ID:              uuid.NewString(),
		FamilyID:        familyID,
		OwnerID:         owner,
		Name:            input.Name,
		Type:            input.Type,
		Brand:           input.Brand,
		Model:           input.Model,
		SerialNumber:    input.SerialNumber,
		PurchaseDate:    input.PurchaseDate,
		WarrantyExpiry:  input.WarrantyExpiry,
		ServiceProvider: input.ServiceProvider,
		Status:          status,
		Notes:           input.Notes,
		Documents:       input.Documents,
	}
	if err := s.repo.CreateEquipment(ctx, &equipment); err != nil {
		return nil, err
	}
	return &equipment, nil
}

func (s *Service) UpdateEquipment(ctx context.Context, scope family.Scope, equipmentID string, update EquipmentUpdate) (*Equipment, error) {
	equipment, err := s.GetEquipment(ctx, scope, equipmentID)
	if err != nil {
		return nil, err
	}

	if update.Name != nil {
		equipment.Name = strings.TrimSpace(*update.Name)
	}
	if update.Type != nil {
		equipment.Type = update.Type
	}
	if update.Brand != nil {
		equipment.Brand = update.Brand
	}
	if update.Model != nil {
		equipment.Model = update.Model
	}
	if update.SerialNumber != nil {
		equipment.SerialNumber = update.SerialNumber
	}
	if update.PurchaseDate != nil {
		equipment.PurchaseDate = update.PurchaseDate
	}
	if update.WarrantyExpiry != nil {
		equipment.WarrantyExpiry = update.WarrantyExpiry
	}
	if update.ServiceProvider != nil {
		equipment.ServiceProvider = *update.ServiceProvider
	}
	if update.Status != nil {
		equipment.Status = strings.ToUpper(strings.TrimSpace(*update.Status))
	}
	if update.Notes != nil {
		equipment.Notes = *update.Notes
	}
	if update.Documents != nil {
		equipment.Documents = update.Documents
	}

	if err := s.repo.UpdateEquipment(ctx, equipment); err != nil {
		return nil, err
	}
	return equipment, nil
}

func (s *Service) DeleteEquipment(ctx context.Context, scope family.Scope, equipmentID string) error {
	if _, err := s.GetEquipment(ctx, scope, equipmentID); err != nil {
		return err
	}
	return s.repo.DeleteEquipment(ctx, equipmentID)
}

func (s *Service) ListOrders(ctx context.Context, scope family.Scope, equipmentID, status string) ([]MaintenanceOrder, error) {
	if scope.IsEmpty() {
		return []MaintenanceOrder{}, nil
	}
	return s.repo.ListOrders(ctx, scope.FamilyIDs(), equipmentID, strings.ToUpper(strings.TrimSpace(status)))
}

func (s *Service) GetOrder(ctx context.Context, scope family.Scope, orderID string) (*MaintenanceOrder, error) {
	if scope.IsEmpty() {
		return nil, ErrOrderNotFound
	}
	return s.repo.GetOrder(ctx, scope.FamilyIDs(), orderID)
}

func (s *Service) CreateOrder(ctx context.Context, scope family.Scope, creatorID string, input OrderInput) (*MaintenanceOrder, error) {
	if _, err := s.GetEquipment(ctx, scope, input.EquipmentID); err != nil {
		return nil, err
	}
	input.Title = strings.TrimSpace(input.Title)
	if input.Title == "" {
		return nil, fmt.Errorf("title is required")
	}

	status := strings.ToUpper(strings.TrimSpace(input.Status))
	if status == "" {
		status = OrderPending
	}
	priority := strings.ToUpper(strings.TrimSpace(input.Priority))
	if priority == "" {
		priority = PriorityMedium
	}

	order := MaintenanceOrder{
		ID:                 uuid.NewString(),
		EquipmentID:        input.EquipmentID,
		CreatedByID:        creatorID,
		Title:              input.Title,
		Description:        input.Description,
		Status:             status,
		Priority:           priority,
		ServiceProvider:    input.ServiceProvider,
		CompletionDate:     input.CompletionDate,
		Cost:               input.Cost,
		WarrantyExpiration: input.WarrantyExpiration,
		WarrantyTerms:      input.WarrantyTerms,
		InvoiceNumber:      input.InvoiceNumber,
		Notes:              input.Notes,
		Documents:          input.Documents,
	}
	if err := s.repo.CreateOrder(ctx, &order); err != nil {
		return nil, err
	}
	return &order, nil
}

func (s *Service) UpdateOrder(ctx context.Context, scope family.Scope, orderID string, update OrderUpdate) (*MaintenanceOrder, error) {
	order, err := s.GetOrder(ctx, scope, orderID)
	if err != nil {
		return nil, err
	}

	if update.Title != nil {
		order.Title = strings.TrimSpace(*update.Title)
	}
	if update.Description != nil {
		order.Description = *update.Description
	}
	if update.Status != nil {
		order.Status = strings.ToUpper(strings.TrimSpace(*update.Status))
	}
	if update.Priority != nil {
		order.Priority = strings.ToUpper(strings.TrimSpace(*update.Priority))
	}
	if update.ServiceProvider != nil {
		order.ServiceProvider = *update.ServiceProvider
	}
	if update.CompletionDate != nil {
		order.CompletionDate = update.CompletionDate
	}
	if update.Cost != nil {
		order.Cost = update.Cost
	}
	if update.WarrantyExpiration != nil {
		order.WarrantyExpiration = update.WarrantyExpiration
	}
	if update.WarrantyTerms != nil {
		order.WarrantyTerms = *update.WarrantyTerms
	}
	if update.InvoiceNumber != nil {
		order.InvoiceNumber = *update.InvoiceNumber
	}
	if update.Notes != nil {
		order.Notes = *update.Notes
	}
	if update.Documents != nil {
		order.Documents = update.Documents
	}

	if err := s.repo.UpdateOrder(ctx, order); err != nil {
		return nil, err
	}
	return order, nil
}

func (s *Service) DeleteOrder(ctx context.Context, scope family.Scope, orderID string) error {
	if _, err := s.GetOrder(ctx, scope, orderID); err != nil {
		return err
	}
	return s.repo.DeleteOrder(ctx, orderID)
}

// Stats aggregates the maintenance dashboard numbers over the scope.
func (s *Service) Stats(ctx context.Context, scope family.Scope) (*Stats, error) {
	if scope.IsEmpty() {
		return &Stats{EquipmentByType: []TypeCount{}}, nil
	}
	ids := scope.FamilyIDs()

	totalEquipment, err := s.repo.CountEquipment(ctx, ids)
	if err != nil {
		return nil, err
	}
	totalOrders, err := s.repo.CountOrders(ctx, ids, "")
	if err != nil {
		return nil, err
	}
	pending, err := s.repo.CountOrders(ctx, ids, OrderPending)
	if err != nil {
		return nil, err
	}
	inProgress, err := s.repo.CountOrders(ctx, ids, OrderInProgress)
	if err != nil {
		return nil, err
	}
	recentCost, err := s.repo.SumOrderCostSince(ctx, ids, time.Now().UTC().Add(-recentCostWindow))
	if err != nil {
		return nil, err
	}
	byType, err := s.repo.CountEquipmentByType(ctx, ids)
	if err != nil {
		return nil, err
	}
	if byType == nil {
		byType = []TypeCount{}
	}

	return &Stats{
		TotalEquipment:   totalEquipment,
		TotalOrders:      totalOrders,
		PendingOrders:    pending,
		InProgressOrders: inProgress,
		RecentCost:       recentCost,
		EquipmentByType:  byType,
	}, nil
}
