package cart

import (
	"errors"
	"slices"
	"strings"
	"sync"
	"time"

	"campuseats/metrics"
	"campuseats/models"
	"campuseats/pricing"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

var (
	ErrLineNotFound    = errors.New("cart line not found")
	ErrItemUnavailable = errors.New("menu item is not available")
	ErrSessionRequired = errors.New("session id is required")
	ErrTooManySessions = errors.New("too many open carts, try again later")
)

// Op names a cart mutation.
type Op string

const (
	OpAdd    Op = "add"
	OpUpdate Op = "update"
	OpRemove Op = "remove"
	OpClear  Op = "clear"
)

// subscriberBuffer is the number of events a slow subscriber may lag before
// further events to it are dropped.
const subscriberBuffer = 16

// Summary aggregates the cart contents.
type Summary struct {
	Lines     []models.CartLine  `json:"lines"`
	ItemCount int                `json:"itemCount"`
	Subtotal  float64            `json:"subtotal"`
	Display   string             `json:"display"`
	ByCanteen map[string]float64 `json:"byCanteen"`
}

// Event is delivered to subscribers after every mutation.
type Event struct {
	Op      Op               `json:"op"`
	Line    *models.CartLine `json:"line,omitempty"`
	Summary Summary          `json:"summary"`
}

// Store is one session's cart. All methods are safe for concurrent use.
type Store struct {
	mu        sync.Mutex
	sessionID string
	options   *pricing.Catalog
	lines     []models.CartLine
	sigs      map[string]string
	subs      map[int]chan Event
	nextSub   int
	closed    bool
	now       func() time.Time
}

// NewStore creates an empty cart priced against options.
func NewStore(sessionID string, options *pricing.Catalog) *Store {
	return &Store{
		sessionID: sessionID,
		options:   options,
		sigs:      make(map[string]string),
		subs:      make(map[int]chan Event),
		now:       time.Now,
	}
}

// Add puts a customised item in the cart. The item's catalog price is used as the
// base price. An identical customization of the same item is merged into the
// existing line.
func (s *Store) Add(item models.MenuItem, c models.Customization) (models.CartLine, error) {
	if !item.IsAvailable {
		return models.CartLine{}, ErrItemUnavailable
	}

	c.ItemID = item.ID
	c.BasePrice = item.Price
	q := s.options.Quote(c)
	sig := signature(q, c)

	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.lines {
		if s.sigs[s.lines[i].ID] == sig {
			s.lines[i].Quantity += q.Quantity
			s.lines[i].Total = s.lines[i].UnitPrice * float64(s.lines[i].Quantity)
			line := s.lines[i]
			s.notifyLocked(OpUpdate, &line)
			return line, nil
		}
	}

	line := models.CartLine{
		ID:           uuid.NewString(),
		ItemID:       item.ID,
		CanteenID:    item.CanteenID,
		Name:         item.Name,
		Size:         q.Size,
		Addons:       q.Addons,
		Removals:     q.Removals,
		Instructions: c.Instructions,
		Quantity:     q.Quantity,
		UnitPrice:    q.UnitPrice,
		Total:        q.Total,
		AddedAt:      s.now(),
	}
	s.lines = append(s.lines, line)
	s.sigs[line.ID] = sig
	s.notifyLocked(OpAdd, &line)
	return line, nil
}

// UpdateQuantity sets the quantity of a line. A quantity below 1 removes it.
func (s *Store) UpdateQuantity(lineID string, quantity int) (models.CartLine, error) {
	if quantity < 1 {
		return models.CartLine{}, s.Remove(lineID)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexLocked(lineID)
	if i < 0 {
		return models.CartLine{}, ErrLineNotFound
	}
	s.lines[i].Quantity = quantity
	s.lines[i].Total = s.lines[i].UnitPrice * float64(quantity)
	line := s.lines[i]
	s.notifyLocked(OpUpdate, &line)
	return line, nil
}

// Remove deletes a line.
func (s *Store) Remove(lineID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexLocked(lineID)
	if i < 0 {
		return ErrLineNotFound
	}
	line := s.lines[i]
	s.lines = slices.Delete(s.lines, i, i+1)
	delete(s.sigs, lineID)
	s.notifyLocked(OpRemove, &line)
	return nil
}

// Clear empties the cart.
func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lines = nil
	s.sigs = make(map[string]string)
	s.notifyLocked(OpClear, nil)
}

// Lines returns a copy of the cart lines in insertion order.
func (s *Store) Lines() []models.CartLine {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]models.CartLine{}, s.lines...)
}

// Summary totals the cart.
func (s *Store) Summary() Summary {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.summaryLocked()
}

// Subscribe registers an observer. The returned cancel func unregisters it and
// closes the channel; it is safe to call more than once.
func (s *Store) Subscribe() (<-chan Event, func()) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ch := make(chan Event, subscriberBuffer)
	if s.closed {
		close(ch)
		return ch, func() {}
	}

	id := s.nextSub
	s.nextSub++
	s.subs[id] = ch

	return ch, func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		if c, ok := s.subs[id]; ok {
			delete(s.subs, id)
			close(c)
		}
	}
}

// Close closes every subscriber channel. Mutations after Close still apply but
// are no longer published.
func (s *Store) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	for id, c := range s.subs {
		delete(s.subs, id)
		close(c)
	}
}

func (s *Store) subscribers() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.subs)
}

func (s *Store) indexLocked(lineID string) int {
	return slices.IndexFunc(s.lines, func(l models.CartLine) bool { return l.ID == lineID })
}

func (s *Store) summaryLocked() Summary {
	sum := Summary{
		Lines:     append([]models.CartLine{}, s.lines...),
		ByCanteen: make(map[string]float64),
	}
	for _, l := range s.lines {
		sum.ItemCount += l.Quantity
		sum.Subtotal += l.Total
		sum.ByCanteen[l.CanteenID] += l.Total
	}
	sum.Display = pricing.FormatPrice(sum.Subtotal)
	return sum
}

func (s *Store) notifyLocked(op Op, line *models.CartLine) {
	metrics.CartMutations.WithLabelValues(string(op)).Inc()
	if len(s.subs) == 0 {
		return
	}

	ev := Event{Op: op, Line: line, Summary: s.summaryLocked()}
	for id, c := range s.subs {
		select {
		case c <- ev:
		default:
			log.Warn().Str("session_id", s.sessionID).Int("subscriber", id).Str("op", string(op)).Msg("Cart subscriber lagging, event dropped")
		}
	}
}

// signature identifies a customization independent of option order.
func signature(q pricing.Quote, c models.Customization) string {
	var b strings.Builder
	b.WriteString(c.ItemID)
	b.WriteByte('|')
	if q.Size != nil {
		b.WriteString(q.Size.ID)
	}
	b.WriteByte('|')

	addons := make([]string, 0, len(q.Addons))
	for _, a := range q.Addons {
		addons = append(addons, a.ID)
	}
	slices.Sort(addons)
	b.WriteString(strings.Join(addons, ","))
	b.WriteByte('|')

	removals := make([]string, 0, len(q.Removals))
	for _, r := range q.Removals {
		removals = append(removals, r.ID)
	}
	slices.Sort(removals)
	b.WriteString(strings.Join(removals, ","))
	b.WriteByte('|')

	b.WriteString(strings.TrimSpace(c.Instructions))
	return b.String()
}
