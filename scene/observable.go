package scene

import "sync"

// An Observer is a registered callback. It is returned by Observable.Add and
// used to remove the callback later.
type Observer struct {
	fn func()
}

// An Observable is an ordered list of callbacks notified at a specific
// point of the render pipeline.
type Observable struct {
	mu        sync.Mutex
	observers []*Observer
}

// Register a callback.
func (o *Observable) Add(fn func()) *Observer {
	obs := &Observer{fn: fn}
	o.mu.Lock()
	o.observers = append(o.observers, obs)
	o.mu.Unlock()
	return obs
}

// Unregister a callback. Removing an unknown or nil observer is a no-op.
func (o *Observable) Remove(obs *Observer) {
	if obs == nil {
		return
	}

	o.mu.Lock()
	defer o.mu.Unlock()
	for index, registered := range o.observers {
		if registered == obs {
			o.observers = append(o.observers[:index], o.observers[index+1:]...)
			return
		}
	}
}

// Invoke all registered callbacks in registration order.
func (o *Observable) Notify() {
	o.mu.Lock()
	if len(o.observers) == 0 {
		o.mu.Unlock()
		return
	}
	observers := make([]*Observer, len(o.observers))
	copy(observers, o.observers)
	o.mu.Unlock()

	for _, obs := range observers {
		obs.fn()
	}
}

// Remove all callbacks.
func (o *Observable) Clear() {
	o.mu.Lock()
	o.observers = nil
	o.mu.Unlock()
}

// Number of registered callbacks.
func (o *Observable) Len() int {
	o.mu.Lock()
	defer o.mu.Unlock()
	return len(o.observers)
}
