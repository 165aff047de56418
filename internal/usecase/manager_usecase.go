package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"product_manager/internal/clients"
	"product_manager/internal/domain"

	"github.com/sirupsen/logrus"
)

var ErrProductNotInList = errors.New("product is not in the current list")

// ViewState is a copy of everything the manager view renders.
type ViewState struct {
	Products  []domain.Product
	Search    string
	Draft     domain.ProductForm
	EditingID string
	Notice    string
}

// Editing reports whether the form is in edit mode.
func (s ViewState) Editing() bool {
	return s.EditingID != ""
}

// Manager holds the state of one manager view and runs its actions. Every
// action issues its request and, after a successful mutation, re-fetches the
// full list. Failed requests are logged and leave the state as it was.
//
// The lock only guards state; requests run without it, so overlapping actions
// each go out on the wire.
type Manager struct {
	client clients.CatalogClient
	log    *logrus.Entry

	mu        sync.Mutex
	products  []domain.Product
	search    string
	draft     domain.ProductForm
	editingID string
	notice    string
}

func NewManager(client clients.CatalogClient, logger *logrus.Logger) *Manager {
	return &Manager{
		client:   client,
		log:      logger.WithField("component", "manager"),
		products: []domain.Product{},
	}
}

func (m *Manager) Snapshot() ViewState {
	m.mu.Lock()
	defer m.mu.Unlock()
	products := make([]domain.Product, len(m.products))
	copy(products, m.products)
	return ViewState{
		Products:  products,
		Search:    m.search,
		Draft:     m.draft,
		EditingID: m.editingID,
		Notice:    m.notice,
	}
}

// Load fetches the full list, as on first display.
func (m *Manager) Load(ctx context.Context) error {
	return m.Refresh(ctx)
}

// Reset returns the view to its initial state and loads the list again.
func (m *Manager) Reset(ctx context.Context) error {
	m.mu.Lock()
	m.search = ""
	m.draft = domain.ProductForm{}
	m.editingID = ""
	m.notice = ""
	m.mu.Unlock()
	return m.Load(ctx)
}

// Refresh replaces the list with the full catalog.
func (m *Manager) Refresh(ctx context.Context) error {
	products, err := m.client.ListProducts(ctx)
	if err != nil {
		m.log.Errorf("Use Case: Failed to load products: %v", err)
		return fmt.Errorf("load products: %w", err)
	}
	m.setProducts(products)
	return nil
}

func (m *Manager) SetSearch(text string) {
	m.mu.Lock()
	m.search = text
	m.mu.Unlock()
}

// Search shows the products matching the current search text. Blank text
// shows the full list.
func (m *Manager) Search(ctx context.Context) error {
	m.mu.Lock()
	keyword := m.search
	m.mu.Unlock()

	if strings.TrimSpace(keyword) == "" {
		return m.Refresh(ctx)
	}

	products, err := m.client.SearchProducts(ctx, keyword)
	if err != nil {
		m.log.Errorf("Use Case: Failed to search products: %v", err)
		return fmt.Errorf("search products: %w", err)
	}
	m.setProducts(products)
	return nil
}

func (m *Manager) SetDraft(form domain.ProductForm) {
	m.mu.Lock()
	m.draft = form
	m.mu.Unlock()
}

// Submit creates or saves depending on the form mode.
func (m *Manager) Submit(ctx context.Context) error {
	m.mu.Lock()
	editing := m.editingID != ""
	m.mu.Unlock()
	if editing {
		return m.SaveEdit(ctx)
	}
	return m.Create(ctx)
}

// Create submits the draft as a new product. An incomplete draft raises the
// blank-fields notice and sends nothing.
func (m *Manager) Create(ctx context.Context) error {
	m.mu.Lock()
	draft := m.draft
	m.mu.Unlock()

	if err := m.validate(draft); err != nil {
		return err
	}

	if err := m.client.CreateProduct(ctx, draft.CreatePayload()); err != nil {
		m.log.Errorf("Use Case: Failed to create product: %v", err)
		return fmt.Errorf("create product: %w", err)
	}

	refreshErr := m.Refresh(ctx)
	m.mu.Lock()
	m.draft = domain.ProductForm{}
	m.mu.Unlock()
	return refreshErr
}

// StartEdit switches the form to edit mode for a product in the current list.
func (m *Manager) StartEdit(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := domain.FindProduct(m.products, id)
	if !ok {
		m.log.Warnf("Edit requested for product %s which is not in the current list", id)
		return ErrProductNotInList
	}
	m.editingID = p.ID
	m.draft = domain.FormFromProduct(p)
	return nil
}

// CancelEdit leaves edit mode and clears the draft.
func (m *Manager) CancelEdit() {
	m.mu.Lock()
	m.editingID = ""
	m.draft = domain.ProductForm{}
	m.mu.Unlock()
}

// SaveEdit submits the draft as an update of the product being edited. It is
// a no-op outside edit mode.
func (m *Manager) SaveEdit(ctx context.Context) error {
	m.mu.Lock()
	id, draft := m.editingID, m.draft
	m.mu.Unlock()

	if id == "" {
		return nil
	}
	if err := m.validate(draft); err != nil {
		return err
	}

	if err := m.client.UpdateProduct(ctx, id, draft.UpdatePayload()); err != nil {
		m.log.Errorf("Use Case: Failed to update product %s: %v", id, err)
		return fmt.Errorf("update product %s: %w", id, err)
	}

	refreshErr := m.Refresh(ctx)
	m.mu.Lock()
	if m.editingID == id {
		m.editingID = ""
		m.draft = domain.ProductForm{}
	}
	m.mu.Unlock()
	return refreshErr
}

// Delete removes a product and re-fetches the list. Callers confirm first.
func (m *Manager) Delete(ctx context.Context, id string) error {
	if err := m.client.DeleteProduct(ctx, id); err != nil {
		m.log.Errorf("Use Case: Failed to delete product %s: %v", id, err)
		return fmt.Errorf("delete product %s: %w", id, err)
	}
	return m.Refresh(ctx)
}

// TakeNotice returns the pending alert, if any, and clears it.
func (m *Manager) TakeNotice() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := m.notice
	m.notice = ""
	return n
}

// Notify queues an alert for the next render.
func (m *Manager) Notify(msg string) {
	m.mu.Lock()
	m.notice = msg
	m.mu.Unlock()
}

func (m *Manager) validate(draft domain.ProductForm) error {
	if err := draft.Validate(); err != nil {
		var ve *domain.ValidationError
		if errors.As(err, &ve) {
			m.Notify(ve.Message)
		}
		m.log.Warnf("Submission blocked: %v", err)
		return err
	}
	return nil
}

func (m *Manager) setProducts(products []domain.Product) {
	if products == nil {
		products = []domain.Product{}
	}
	m.mu.Lock()
	m.products = products
	m.mu.Unlock()
}
