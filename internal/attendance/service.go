package attendance

import (
	"context"
	"errors"
	"sync"
	"time"

	"campusgate/internal/identity"
)

// ErrDuplicateScan is returned when the same code hits the same gate inside
// the cooldown window.
var ErrDuplicateScan = errors.New("attendance: duplicate scan ignored")

// Store is the storage the scan service writes through.
type Store interface {
	AppendScan(ctx context.Context, candidate Log) (Log, Decision, error)
	InsertAlert(ctx context.Context, a Alert) error
}

// Resolver maps a scanned code to a person.
type Resolver interface {
	Resolve(ctx context.Context, code string) (*identity.Person, error)
}

// ScanResult pairs the written log with the resolved person, so callers can
// run side effects (parent SMS) that need profile fields the log drops.
type ScanResult struct {
	Log    Log
	Person identity.Person
}

// Service runs the scan flow: resolve, decide, append, alert on rejection.
type Service struct {
	store    Store
	resolver Resolver
	cooldown time.Duration

	mu       sync.Mutex
	lastSeen map[string]time.Time // gateID|code -> last accepted scan
	inFlight map[string]bool      // gateID -> scan being processed
}

// NewService creates the scan service. cooldown suppresses duplicate
// submissions of the same code at the same gate.
func NewService(store Store, resolver Resolver, cooldown time.Duration) *Service {
	if cooldown <= 0 {
		cooldown = 3 * time.Second
	}
	return &Service{
		store:    store,
		resolver: resolver,
		cooldown: cooldown,
		lastSeen: make(map[string]time.Time),
		inFlight: make(map[string]bool),
	}
}

// Scan processes one scanned code at a gate. Exactly one of three outcomes:
// an ENTRY log, an EXIT log, or a rejection with a persisted alert and
// ErrDailyLimit. Scans are serialized per gate; the same code repeated inside
// the cooldown window is dropped before any lookup.
func (s *Service) Scan(ctx context.Context, code, gateID string) (ScanResult, error) {
	now := time.Now()
	if err := s.acquire(gateID, code, now); err != nil {
		scansTotal.WithLabelValues("duplicate").Inc()
		return ScanResult{}, err
	}
	defer s.release(gateID)

	person, err := s.resolver.Resolve(ctx, code)
	if err != nil {
		if errors.Is(err, identity.ErrNotFound) {
			scansTotal.WithLabelValues("invalid").Inc()
		} else {
			scansTotal.WithLabelValues("error").Inc()
		}
		return ScanResult{}, err
	}

	if person.Role != identity.RoleStudent && person.Role != identity.RoleFaculty {
		scansTotal.WithLabelValues("unauthorized").Inc()
		return ScanResult{}, ErrRoleNotAllowed
	}

	candidate := Log{
		PersonID:   person.ID,
		Role:       string(person.Role),
		GateID:     gateID,
		Timestamp:  now,
		Name:       orDefault(person.Name, "Unknown"),
		Dept:       orDefault(person.Dept, "N/A"),
		Year:       orDefault(person.Year, "N/A"),
		RollNumber: orDefault(person.ID, "N/A"),
	}

	written, decision, err := s.store.AppendScan(ctx, candidate)
	if err != nil {
		scansTotal.WithLabelValues("error").Inc()
		return ScanResult{}, err
	}
	if decision == DecideReject {
		alert := Alert{
			PersonID:  person.ID,
			Name:      person.Name,
			Type:      "BLOCKED",
			Reason:    "Daily Limit Reached (Already Checked Out)",
			Timestamp: now,
			Date:      LocalDate(now),
		}
		// Alert write failures must not mask the rejection itself.
		_ = s.store.InsertAlert(ctx, alert)
		scansTotal.WithLabelValues("rejected").Inc()
		return ScanResult{}, ErrDailyLimit
	}

	if decision == DecideEntry {
		scansTotal.WithLabelValues("entry").Inc()
	} else {
		scansTotal.WithLabelValues("exit").Inc()
	}
	return ScanResult{Log: written, Person: *person}, nil
}

// acquire enforces one in-flight scan per gate and the per-code cooldown.
func (s *Service) acquire(gateID, code string, now time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.inFlight[gateID] {
		return ErrDuplicateScan
	}
	key := gateID + "|" + code
	if last, ok := s.lastSeen[key]; ok && now.Sub(last) < s.cooldown {
		return ErrDuplicateScan
	}
	s.lastSeen[key] = now
	s.inFlight[gateID] = true
	return nil
}

func (s *Service) release(gateID string) {
	s.mu.Lock()
	delete(s.inFlight, gateID)
	s.mu.Unlock()
}

func orDefault(v, fallback string) string {
	if v == "" {
		return fallback
	}
	return v
}
