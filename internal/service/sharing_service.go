package service

import (
	"context"
	"fmt"

	"boardkit/internal/access"
	"boardkit/internal/bus"
	"boardkit/internal/domain"
	"boardkit/internal/registry"
)

// ─────────────────────────────────────────────────────────────
// Sharing Service — grant/revoke flow behind the source picker
// ─────────────────────────────────────────────────────────────

// SharingService owns the write discipline over the document's permission
// list. The access package stays pure policy; this service is the single
// place that appends and removes grants, which is where the
// one-permission-per-triple invariant is enforced.
type SharingService struct {
	contracts *registry.ContractRegistry
	consumers *registry.ConsumerRegistry
	bus       *bus.DataBus
	emitter   EventEmitter
}

// NewSharingService creates a SharingService.
func NewSharingService(contracts *registry.ContractRegistry, consumers *registry.ConsumerRegistry, b *bus.DataBus, emitter EventEmitter) *SharingService {
	return &SharingService{contracts: contracts, consumers: consumers, bus: b, emitter: emitter}
}

// Connect grants a consumer widget read access to a provider widget under a
// contract. Connecting an already-connected triple returns the existing
// grant unchanged. For single-select consumers, any previous connection for
// the same contract is revoked first.
func (s *SharingService) Connect(ctx context.Context, doc *domain.BoardkitDocument, consumerWidgetID, providerWidgetID, contractID string) (*domain.DataPermission, error) {
	consumer := doc.Board.FindWidget(consumerWidgetID)
	if consumer == nil {
		return nil, fmt.Errorf("consumer widget %s not found", consumerWidgetID)
	}
	if !access.CanProvide(s.contracts, doc.Board.Widgets, providerWidgetID, contractID) {
		return nil, fmt.Errorf("widget %s cannot provide contract %s", providerWidgetID, contractID)
	}
	def, ok := s.consumers.Get(consumer.ModuleID, contractID)
	if !ok {
		return nil, fmt.Errorf("module %s does not consume contract %s", consumer.ModuleID, contractID)
	}

	if existing := access.FindPermission(doc.DataSharing.Permissions, consumerWidgetID, providerWidgetID, contractID); existing != nil {
		return existing, nil
	}

	if !def.MultiSelect {
		for _, p := range access.ConsumerPermissions(doc.DataSharing.Permissions, consumerWidgetID) {
			if p.ContractID == contractID {
				s.Disconnect(ctx, doc, consumerWidgetID, p.ProviderWidgetID, contractID)
			}
		}
	}

	perm := access.NewPermission(consumerWidgetID, providerWidgetID, contractID)
	doc.DataSharing.Permissions = append(doc.DataSharing.Permissions, perm)
	doc.DataSharing.Links = append(doc.DataSharing.Links, access.LinkFor(perm))

	s.emitter.Emit(ctx, "sharing:connected", map[string]string{
		"consumerWidgetId": consumerWidgetID,
		"providerWidgetId": providerWidgetID,
		"contractId":       contractID,
	})
	return access.FindPermission(doc.DataSharing.Permissions, consumerWidgetID, providerWidgetID, contractID), nil
}

// Disconnect revokes the grant for a triple. Revoking a non-existent grant
// is a no-op and reports false.
func (s *SharingService) Disconnect(ctx context.Context, doc *domain.BoardkitDocument, consumerWidgetID, providerWidgetID, contractID string) bool {
	perms := doc.DataSharing.Permissions
	removed := false
	kept := perms[:0]
	for _, p := range perms {
		if p.ConsumerWidgetID == consumerWidgetID && p.ProviderWidgetID == providerWidgetID && p.ContractID == contractID {
			removed = true
			continue
		}
		kept = append(kept, p)
	}
	if !removed {
		return false
	}
	doc.DataSharing.Permissions = kept
	s.rebuildLinks(doc)

	s.emitter.Emit(ctx, "sharing:disconnected", map[string]string{
		"consumerWidgetId": consumerWidgetID,
		"providerWidgetId": providerWidgetID,
		"contractId":       contractID,
	})
	return true
}

// RemoveWidget purges every grant and link referencing the widget as either
// side, and clears its subscriptions and cached publishes from the bus.
// Called by the board when a widget is deleted.
func (s *SharingService) RemoveWidget(ctx context.Context, doc *domain.BoardkitDocument, widgetID string) {
	perms := doc.DataSharing.Permissions
	kept := perms[:0]
	for _, p := range perms {
		if p.ConsumerWidgetID == widgetID || p.ProviderWidgetID == widgetID {
			continue
		}
		kept = append(kept, p)
	}
	doc.DataSharing.Permissions = kept
	s.rebuildLinks(doc)
	s.bus.RemoveWidget(widgetID)
}

// Status computes the connection status for a triple from the live document.
func (s *SharingService) Status(doc *domain.BoardkitDocument, consumerWidgetID, providerWidgetID, contractID string) domain.ConnectionStatus {
	return access.Status(doc.DataSharing.Permissions, doc.Board.Widgets, consumerWidgetID, providerWidgetID, contractID)
}

// AvailableProviders lists the widgets eligible to provide a contract on
// this board. Shown by the source picker.
func (s *SharingService) AvailableProviders(doc *domain.BoardkitDocument, contractID string) []domain.Widget {
	return access.AvailableProviders(s.contracts, doc.Board.Widgets, contractID)
}

// Links are derivable from permissions; regenerate rather than patch so the
// two can never drift.
func (s *SharingService) rebuildLinks(doc *domain.BoardkitDocument) {
	links := make([]domain.DataLink, 0, len(doc.DataSharing.Permissions))
	for _, p := range doc.DataSharing.Permissions {
		links = append(links, access.LinkFor(p))
	}
	doc.DataSharing.Links = links
}
