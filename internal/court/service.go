package court

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/jeysi05/pickle-jar-courts/internal/logger"
)

var (
	ErrCourtNotFound = errors.New("court not found")
	ErrCourtInvalid  = errors.New("invalid court")
)

type Service interface {
	Create(ctx context.Context, req CreateCourtRequest) (*Court, error)
	List(ctx context.Context) ([]Court, error)
	Get(ctx context.Context, id int) (*Court, error)
}

type service struct {
	repo Repository
}

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (s *service) Create(ctx context.Context, req CreateCourtRequest) (*Court, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, ErrCourtInvalid
	}

	c, err := s.repo.Create(ctx, name, strings.TrimSpace(req.Location))
	if err != nil {
		return nil, err
	}
	logger.Info("court created", "court_id", c.ID, "name", c.Name)
	return c, nil
}

func (s *service) List(ctx context.Context) ([]Court, error) {
	return s.repo.List(ctx)
}

func (s *service) Get(ctx context.Context, id int) (*Court, error) {
	c, err := s.repo.GetByID(ctx, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrCourtNotFound
	}
	if err != nil {
		return nil, err
	}
	return c, nil
}
