package app

import (
	"strings"

	"boardkit/internal/domain"
	"boardkit/internal/modules"
	"boardkit/internal/service"
)

// bindingSet tracks the live provider and consumer bindings for the open
// document. Providers are keyed by widget id; consumers by widget id plus
// contract id, since one widget may consume several contracts.
type bindingSet struct {
	app       *App
	providers map[string]*service.ProviderBinding
	consumers map[string]*service.ConsumerBinding
}

func newBindingSet(a *App) *bindingSet {
	return &bindingSet{
		app:       a,
		providers: make(map[string]*service.ProviderBinding),
		consumers: make(map[string]*service.ConsumerBinding),
	}
}

func consumerBindingKey(widgetID, contractID string) string {
	return widgetID + ":" + contractID
}

// BindWidget creates the bindings a widget's module type calls for and, for
// providers, publishes the current state immediately so late subscribers get
// a replay.
func (bs *bindingSet) BindWidget(doc *domain.BoardkitDocument, w domain.Widget) {
	if contractID, project, ok := modules.ProjectionFor(w.ModuleID); ok {
		if _, bound := bs.providers[w.ID]; !bound {
			bs.providers[w.ID] = service.NewProviderBinding(bs.app.bus, w.ID, contractID, project)
		}
		bs.publish(doc, w.ID)
	}

	for _, def := range bs.app.consumers.ByModule(w.ModuleID) {
		key := consumerBindingKey(w.ID, def.ContractID)
		binding, bound := bs.consumers[key]
		if !bound {
			binding = service.NewConsumerBinding(bs.app.bus, def, w.ID, bs.onData(w.ID, def.ContractID))
			bs.consumers[key] = binding
		}
		binding.Refresh(doc)
	}
}

// UnbindWidget drops a widget's bindings. Bus-side cleanup (subscriptions
// from both sides, cached publishes) happens in the sharing cascade.
func (bs *bindingSet) UnbindWidget(widgetID string) {
	delete(bs.providers, widgetID)
	for key, binding := range bs.consumers {
		if strings.HasPrefix(key, widgetID+":") {
			binding.Close()
			delete(bs.consumers, key)
		}
	}
}

// RebindAll tears everything down and rebinds every widget on the document.
// Used when a document is opened or restored wholesale.
func (bs *bindingSet) RebindAll(doc *domain.BoardkitDocument) {
	bs.CloseAll()
	if doc == nil {
		return
	}
	for _, w := range doc.Board.Widgets {
		bs.BindWidget(doc, w)
	}
}

// RefreshConsumers re-reconciles every consumer binding against the document.
// Called after permissions change or a consumer's source selection changes.
func (bs *bindingSet) RefreshConsumers(doc *domain.BoardkitDocument) {
	for _, binding := range bs.consumers {
		binding.Refresh(doc)
	}
}

// publish projects and publishes a provider widget's current state.
func (bs *bindingSet) publish(doc *domain.BoardkitDocument, widgetID string) {
	binding, ok := bs.providers[widgetID]
	if !ok {
		return
	}
	state, err := bs.app.board.ModuleState(doc, widgetID)
	if err != nil {
		return
	}
	binding.Publish(state)
}

func (bs *bindingSet) CloseAll() {
	for key, binding := range bs.consumers {
		binding.Close()
		delete(bs.consumers, key)
	}
	bs.providers = make(map[string]*service.ProviderBinding)
}

// onData forwards bus deliveries to the shell as events; the frontend (or
// MCP watcher) re-reads widget data in response.
func (bs *bindingSet) onData(widgetID, contractID string) func(providerWidgetID string, data any) {
	return func(providerWidgetID string, data any) {
		bs.app.emitter.Emit(bs.app.ctx, "sharing:data", map[string]string{
			"consumerWidgetId": widgetID,
			"providerWidgetId": providerWidgetID,
			"contractId":       contractID,
		})
	}
}
