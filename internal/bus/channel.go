package bus

// Channel is a typed view over the any-typed transport for a single
// contract. The type parameter pins the payload shape at compile time while
// the bus itself stays payload-agnostic.
type Channel[T any] struct {
	ContractID string
}

// NewChannel creates a typed channel for a contract id.
func NewChannel[T any](contractID string) Channel[T] {
	return Channel[T]{ContractID: contractID}
}

// Publish sends a typed payload from the given provider widget.
func (c Channel[T]) Publish(b *DataBus, providerWidgetID string, data T) {
	b.Publish(providerWidgetID, c.ContractID, data)
}

// Subscribe registers a typed callback. Payloads published under the same
// contract id with a different concrete type are dropped rather than
// delivered mis-typed.
func (c Channel[T]) Subscribe(b *DataBus, consumerWidgetID, providerWidgetID string, fn func(T)) func() {
	return b.Subscribe(consumerWidgetID, providerWidgetID, c.ContractID, func(data any) {
		if v, ok := data.(T); ok {
			fn(v)
		}
	})
}

// Latest returns the last published typed value for a provider, if any.
func (c Channel[T]) Latest(b *DataBus, providerWidgetID string) (T, bool) {
	var zero T
	data, ok := b.GetData(providerWidgetID, c.ContractID)
	if !ok {
		return zero, false
	}
	v, ok := data.(T)
	if !ok {
		return zero, false
	}
	return v, true
}
