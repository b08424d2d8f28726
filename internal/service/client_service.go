package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"salesos/internal/model"
	"salesos/internal/repository"

	"github.com/google/uuid"
)

// --- DTOs ---

type CreateClientRequest struct {
	Name          string `json:"name" binding:"required"`
	Type          string `json:"type" binding:"required,oneof=BUYER SUPPLIER BOTH"`
	CompanyName   string `json:"company_name"`
	Country       string `json:"country"`
	Email         string `json:"email" binding:"omitempty,email"`
	Phone         string `json:"phone"`
	ContactNotes  string `json:"contact_notes"`
	AccountingRef string `json:"accounting_ref"`
}

type UpdateClientRequest struct {
	Name          *string `json:"name"`
	Type          *string `json:"type" binding:"omitempty,oneof=BUYER SUPPLIER BOTH"`
	CompanyName   *string `json:"company_name"`
	Country       *string `json:"country"`
	Email         *string `json:"email" binding:"omitempty,email"`
	Phone         *string `json:"phone"`
	ContactNotes  *string `json:"contact_notes"`
	AccountingRef *string `json:"accounting_ref"`
	IsActive      *bool   `json:"is_active"`
}

type ClientFilter struct {
	Type     string
	Search   string
	IsActive *bool
	Page     int
	Limit    int
}

type ClientResponse struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	Type          string `json:"type"`
	CompanyName   string `json:"company_name"`
	Country       string `json:"country"`
	Email         string `json:"email"`
	Phone         string `json:"phone"`
	ContactNotes  string `json:"contact_notes"`
	AccountingRef string `json:"accounting_ref"`
	IsActive      bool   `json:"is_active"`
	CreatedAt     string `json:"created_at"`
}

// --- Interface ---

type ClientService interface {
	CreateClient(ctx context.Context, req CreateClientRequest, userID string) (ClientResponse, error)
	GetClient(ctx context.Context, id string) (ClientResponse, error)
	ListClients(ctx context.Context, filter ClientFilter) ([]ClientResponse, int64, error)
	UpdateClient(ctx context.Context, id string, req UpdateClientRequest, userID string) (ClientResponse, error)
	DeleteClient(ctx context.Context, id string, userID string) error
}

type clientService struct {
	clientRepo repository.ClientRepository
	auditRepo  repository.AuditRepository
}

func NewClientService(clientRepo repository.ClientRepository, auditRepo repository.AuditRepository) ClientService {
	return &clientService{clientRepo: clientRepo, auditRepo: auditRepo}
}

// --- Implementation ---

func (s *clientService) CreateClient(ctx context.Context, req CreateClientRequest, userID string) (ClientResponse, error) {
	client := model.Client{
		Name:          req.Name,
		Type:          req.Type,
		CompanyName:   req.CompanyName,
		Country:       req.Country,
		Email:         req.Email,
		Phone:         req.Phone,
		ContactNotes:  req.ContactNotes,
		AccountingRef: req.AccountingRef,
		IsActive:      true,
	}

	if err := s.clientRepo.Create(ctx, &client); err != nil {
		return ClientResponse{}, fmt.Errorf("failed to create client: %w", err)
	}

	s.writeAudit(ctx, userID, model.ActionCreateClient, client.ID.String(), client.Name, req)
	return toClientResponse(client), nil
}

func (s *clientService) GetClient(ctx context.Context, id string) (ClientResponse, error) {
	clientID, err := uuid.Parse(id)
	if err != nil {
		return ClientResponse{}, fmt.Errorf("invalid client id: %w", err)
	}

	client, err := s.clientRepo.FindByID(ctx, clientID)
	if err != nil {
		return ClientResponse{}, fmt.Errorf("client not found: %w", err)
	}
	return toClientResponse(*client), nil
}

func (s *clientService) ListClients(ctx context.Context, filter ClientFilter) ([]ClientResponse, int64, error) {
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.Limit <= 0 {
		filter.Limit = 20
	}

	clients, total, err := s.clientRepo.List(ctx, repository.ClientListFilter{
		Type:     filter.Type,
		Search:   filter.Search,
		IsActive: filter.IsActive,
		Page:     filter.Page,
		Limit:    filter.Limit,
	})
	if err != nil {
		return nil, 0, fmt.Errorf("failed to fetch clients: %w", err)
	}

	result := make([]ClientResponse, 0, len(clients))
	for _, c := range clients {
		result = append(result, toClientResponse(c))
	}
	return result, total, nil
}

func (s *clientService) UpdateClient(ctx context.Context, id string, req UpdateClientRequest, userID string) (ClientResponse, error) {
	clientID, err := uuid.Parse(id)
	if err != nil {
		return ClientResponse{}, fmt.Errorf("invalid client id: %w", err)
	}

	client, err := s.clientRepo.FindByID(ctx, clientID)
	if err != nil {
		return ClientResponse{}, fmt.Errorf("client not found: %w", err)
	}

	if req.Name != nil {
		client.Name = *req.Name
	}
	if req.Type != nil {
		client.Type = *req.Type
	}
	if req.CompanyName != nil {
		client.CompanyName = *req.CompanyName
	}
	if req.Country != nil {
		client.Country = *req.Country
	}
	if req.Email != nil {
		client.Email = *req.Email
	}
	if req.Phone != nil {
		client.Phone = *req.Phone
	}
	if req.ContactNotes != nil {
		client.ContactNotes = *req.ContactNotes
	}
	if req.AccountingRef != nil {
		client.AccountingRef = *req.AccountingRef
	}
	if req.IsActive != nil {
		client.IsActive = *req.IsActive
	}

	if err := s.clientRepo.Update(ctx, client); err != nil {
		return ClientResponse{}, fmt.Errorf("failed to update client: %w", err)
	}

	s.writeAudit(ctx, userID, model.ActionUpdateClient, client.ID.String(), client.Name, req)
	return toClientResponse(*client), nil
}

func (s *clientService) DeleteClient(ctx context.Context, id string, userID string) error {
	clientID, err := uuid.Parse(id)
	if err != nil {
		return fmt.Errorf("invalid client id: %w", err)
	}

	client, err := s.clientRepo.FindByID(ctx, clientID)
	if err != nil {
		return fmt.Errorf("client not found: %w", err)
	}

	if err := s.clientRepo.Delete(ctx, clientID); err != nil {
		return fmt.Errorf("failed to delete client: %w", err)
	}

	s.writeAudit(ctx, userID, model.ActionDeleteClient, id, client.Name, map[string]string{"deleted_id": id})
	return nil
}

// --- Helpers ---

func (s *clientService) writeAudit(ctx context.Context, userID, action, entityID, entityName string, details interface{}) {
	detailsJSON, _ := json.Marshal(details)

	entry := model.AuditLog{
		Action:     action,
		EntityID:   entityID,
		EntityName: entityName,
		Details:    string(detailsJSON),
	}
	if userID != "" {
		if parsed, err := uuid.Parse(userID); err == nil {
			entry.UserID = &parsed
		}
	}

	if err := s.auditRepo.Log(ctx, &entry); err != nil {
		log.Printf("audit write failed for %s: %v", action, err)
	}
}

func toClientResponse(c model.Client) ClientResponse {
	return ClientResponse{
		ID:            c.ID.String(),
		Name:          c.Name,
		Type:          c.Type,
		CompanyName:   c.CompanyName,
		Country:       c.Country,
		Email:         c.Email,
		Phone:         c.Phone,
		ContactNotes:  c.ContactNotes,
		AccountingRef: c.AccountingRef,
		IsActive:      c.IsActive,
		CreatedAt:     c.CreatedAt.Format(time.RFC3339),
	}
}
