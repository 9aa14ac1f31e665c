package stubapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"github.com/wolfman30/appointment-scheduler/internal/scheduling"
)

// ErrSlotTaken is returned when an hour already holds an appointment
var ErrSlotTaken = errors.New("slot already booked")

// Appointment is a stored booking.
type Appointment struct {
	ID         string    `json:"id"`
	ProviderID string    `json:"provider_id"`
	Date       string    `json:"date"`
	CreatedAt  time.Time `json:"created_at"`
}

// Store keeps booked hours per provider and day.
type Store interface {
	// Book stores appt for the given day and hour, failing with
	// ErrSlotTaken if the hour is already booked.
	Book(ctx context.Context, day scheduling.Date, hour int, appt Appointment) error
	// BookedHours returns the booked hours of a provider's day.
	BookedHours(ctx context.Context, providerID string, day scheduling.Date) (map[int]bool, error)
}

// MemoryStore is an in-process Store.
type MemoryStore struct {
	mu     sync.Mutex
	booked map[string]map[int]Appointment
}

// NewMemoryStore returns an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{booked: make(map[string]map[int]Appointment)}
}

func (s *MemoryStore) Book(_ context.Context, day scheduling.Date, hour int, appt Appointment) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := dayKey(appt.ProviderID, day)
	hours, ok := s.booked[key]
	if !ok {
		hours = make(map[int]Appointment)
		s.booked[key] = hours
	}
	if _, taken := hours[hour]; taken {
		return ErrSlotTaken
	}
	hours[hour] = appt
	return nil
}

func (s *MemoryStore) BookedHours(_ context.Context, providerID string, day scheduling.Date) (map[int]bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(map[int]bool)
	for hour := range s.booked[dayKey(providerID, day)] {
		out[hour] = true
	}
	return out, nil
}

// RedisStore keeps one hash per provider day, keyed by hour.
type RedisStore struct {
	redis  *redis.Client
	tracer trace.Tracer
}

// NewRedisStore wraps a Redis client.
func NewRedisStore(client *redis.Client) *RedisStore {
	if client == nil {
		panic("stubapi: redis client cannot be nil")
	}
	return &RedisStore{redis: client, tracer: otel.Tracer("scheduler.internal.stubapi.store")}
}

func (s *RedisStore) Book(ctx context.Context, day scheduling.Date, hour int, appt Appointment) error {
	ctx, span := s.tracer.Start(ctx, "stubapi.book")
	defer span.End()

	data, err := json.Marshal(appt)
	if err != nil {
		span.RecordError(err)
		return fmt.Errorf("stubapi: failed to marshal appointment: %w", err)
	}
	ok, err := s.redis.HSetNX(ctx, redisDayKey(appt.ProviderID, day), strconv.Itoa(hour), data).Result()
	if err != nil {
		span.RecordError(err)
		return fmt.Errorf("stubapi: failed to persist appointment: %w", err)
	}
	if !ok {
		return ErrSlotTaken
	}
	return nil
}

func (s *RedisStore) BookedHours(ctx context.Context, providerID string, day scheduling.Date) (map[int]bool, error) {
	ctx, span := s.tracer.Start(ctx, "stubapi.booked_hours")
	defer span.End()

	fields, err := s.redis.HKeys(ctx, redisDayKey(providerID, day)).Result()
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("stubapi: failed to load booked hours: %w", err)
	}
	out := make(map[int]bool, len(fields))
	for _, field := range fields {
		hour, err := strconv.Atoi(field)
		if err != nil {
			continue
		}
		out[hour] = true
	}
	return out, nil
}

func dayKey(providerID string, day scheduling.Date) string {
	return providerID + "|" + day.String()
}

func redisDayKey(providerID string, day scheduling.Date) string {
	return fmt.Sprintf("scheduler:booked:%s:%s", providerID, day.String())
}
