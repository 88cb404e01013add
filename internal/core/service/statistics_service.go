package service

import (
	"context"
	"fmt"

	"github.com/cityfix/platform/internal/core/domain"
	"github.com/cityfix/platform/internal/core/ports"
)

// Statistics summarises platform-wide counts.
type Statistics struct {
	TotalMunicipalities int64            `json:"total_municipalities"`
	TotalUsers          int64            `json:"total_users"`
	TotalTickets        int64            `json:"total_tickets"`
	TicketsByStatus     map[string]int64 `json:"tickets_by_status"`
}

type StatisticsService struct {
	store ports.DocumentStore
}

func NewStatisticsService(store ports.DocumentStore) *StatisticsService {
	return &StatisticsService{store: store}
}

func (s *StatisticsService) Summary(ctx context.Context) (*Statistics, error) {
	var (
		out = &Statistics{TicketsByStatus: make(map[string]int64, len(domain.TicketStatuses))}
		err error
	)

	if out.TotalMunicipalities, err = s.store.Count(ctx, domain.CollectionMunicipalities, nil); err != nil {
		return nil, fmt.Errorf("count municipalities: %w", err)
	}
	if out.TotalUsers, err = s.store.Count(ctx, domain.CollectionUsers, nil); err != nil {
		return nil, fmt.Errorf("count users: %w", err)
	}
	if out.TotalTickets, err = s.store.Count(ctx, domain.CollectionTickets, nil); err != nil {
		return nil, fmt.Errorf("count tickets: %w", err)
	}

	for _, st := range domain.TicketStatuses {
		n, err := s.store.Count(ctx, domain.CollectionTickets, domain.Document{"status": string(st)})
		if err != nil {
			return nil, fmt.Errorf("count %s tickets: %w", st, err)
		}
		out.TicketsByStatus[string(st)] = n
	}
	return out, nil
}
