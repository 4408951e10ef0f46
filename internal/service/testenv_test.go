package service

import (
	"context"
	"sync"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/marceloamellopaixao/iadeldorado-sub000/internal/events"
	"github.com/marceloamellopaixao/iadeldorado-sub000/internal/models"
	"github.com/marceloamellopaixao/iadeldorado-sub000/internal/repo"
)

func newTestRepo(t *testing.T) *repo.GormRepo {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(models.All()...))
	return repo.New(db)
}

func seedProduct(t *testing.T, r *repo.GormRepo, name string, price float64, stock int) *models.Product {
	t.Helper()
	p := &models.Product{Name: name, Description: name, Price: price, Stock: stock, Active: true}
	require.NoError(t, r.DB.Create(p).Error)
	return p
}

func seedCantina(t *testing.T, r *repo.GormRepo, withPix bool) *models.Cantina {
	t.Helper()
	cantina := &models.Cantina{Name: "cantina principal"}
	require.NoError(t, r.DB.Create(cantina).Error)
	require.NoError(t, r.SetCurrentCantina(context.Background(), cantina.ID))
	if withPix {
		require.NoError(t, r.UpsertPixConfig(context.Background(), &models.PixConfig{
			CantinaID: cantina.ID,
			KeyType:   "telefone",
			KeyValue:  "11999998888",
			OwnerName: "Tesouraria",
		}))
	}
	return cantina
}

func seedUser(t *testing.T, r *repo.GormRepo, email, role string) *models.User {
	t.Helper()
	u := &models.User{Name: "user", Email: email, PasswordHash: "x", Role: role}
	require.NoError(t, r.DB.Create(u).Error)
	return u
}

func productStock(t *testing.T, r *repo.GormRepo, id uint) int {
	t.Helper()
	var p models.Product
	require.NoError(t, r.DB.First(&p, id).Error)
	return p.Stock
}

// recorderPub captures published envelopes for assertions.
type recorderPub struct {
	mu     sync.Mutex
	topics []string
	events []events.Envelope
}

func (p *recorderPub) Publish(_ context.Context, topic, _ string, event events.Envelope) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.topics = append(p.topics, topic)
	p.events = append(p.events, event)
	return nil
}

func (p *recorderPub) Close() error { return nil }

func (p *recorderPub) types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, len(p.events))
	for i, ev := range p.events {
		out[i] = ev.Type
	}
	return out
}
