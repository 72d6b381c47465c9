/*
notify.go - Mutation notification fan-out

PURPOSE:
  After every successful mutation the manager invokes every registered
  receiver's matching callback, synchronously, in registration order,
  with the final mutated entity. The persistence adapter is one such
  receiver; it turns notifications into durable writes and writes ids
  back into freshly created entities.

NO ROLLBACK:
  This layer has no rollback. A receiver error is propagated to the
  caller, but the in-memory mutation it was notified about stands, and
  later receivers in the list are still invoked. Receivers must not
  reject a mutation they merely disagree with.

SEE ALSO:
  - store/sqlite: the persistence receiver
  - store/memory: the in-memory receiver used by tests
*/
package staff

import "context"

// Receiver is notified after each successful roster mutation.
//
// OnCollaboratorAdded and OnHolidayRequested receive entities with a
// zero ID; a persistence receiver assigns the id into the entity as its
// acknowledgment.
type Receiver interface {
	OnCollaboratorAdded(ctx context.Context, co *Collaborator) error
	OnCollaboratorRemoved(ctx context.Context, co *Collaborator) error
	OnCollaboratorModified(ctx context.Context, co *Collaborator) error
	OnOccasionalFilled(ctx context.Context, co *Collaborator) error
	OnOccasionalPromoted(ctx context.Context, co *Collaborator) error
	OnHolidayRequested(ctx context.Context, hr *HolidayRequest) error
	OnHolidayDecided(ctx context.Context, hr *HolidayRequest) error
}

// AddReceiver appends a receiver to the notification list.
func (m *Manager) AddReceiver(r Receiver) {
	m.receivers = append(m.receivers, r)
}

// RemoveReceiver removes a previously registered receiver.
func (m *Manager) RemoveReceiver(r Receiver) {
	for i, existing := range m.receivers {
		if existing == r {
			m.receivers = append(m.receivers[:i], m.receivers[i+1:]...)
			return
		}
	}
}

// notify runs fn for every receiver in registration order and returns
// the first error after the full pass.
func (m *Manager) notify(fn func(Receiver) error) error {
	var first error
	for _, r := range m.receivers {
		if err := fn(r); err != nil && first == nil {
			first = err
		}
	}
	return first
}

func (m *Manager) notifyCollaboratorAdded(ctx context.Context, co *Collaborator) error {
	return m.notify(func(r Receiver) error { return r.OnCollaboratorAdded(ctx, co) })
}

func (m *Manager) notifyCollaboratorRemoved(ctx context.Context, co *Collaborator) error {
	return m.notify(func(r Receiver) error { return r.OnCollaboratorRemoved(ctx, co) })
}

func (m *Manager) notifyCollaboratorModified(ctx context.Context, co *Collaborator) error {
	return m.notify(func(r Receiver) error { return r.OnCollaboratorModified(ctx, co) })
}

func (m *Manager) notifyOccasionalFilled(ctx context.Context, co *Collaborator) error {
	return m.notify(func(r Receiver) error { return r.OnOccasionalFilled(ctx, co) })
}

func (m *Manager) notifyOccasionalPromoted(ctx context.Context, co *Collaborator) error {
	return m.notify(func(r Receiver) error { return r.OnOccasionalPromoted(ctx, co) })
}

func (m *Manager) notifyHolidayRequested(ctx context.Context, hr *HolidayRequest) error {
	return m.notify(func(r Receiver) error { return r.OnHolidayRequested(ctx, hr) })
}

func (m *Manager) notifyHolidayDecided(ctx context.Context, hr *HolidayRequest) error {
	return m.notify(func(r Receiver) error { return r.OnHolidayDecided(ctx, hr) })
}
