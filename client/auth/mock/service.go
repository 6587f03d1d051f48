package mock

import (
	"net/http/httptest"
	"sync"
	"time"

	"github.com/viant/exchange/internal/collection"
	"github.com/viant/exchange/schema"
)

type (
	account struct {
		user     schema.User
		password string
		vendorID int
	}

	vendorRecord struct {
		vendor    schema.Vendor
		userID    int
		inventory map[int]int
	}
)

// Service is an in-memory exchange: accounts, JWT credentials, fruits,
// prices, vendors and trades. Handlers can be overridden per endpoint.
type Service struct {
	Secret          []byte
	AccessTokenTTL  time.Duration
	RefreshTokenTTL time.Duration
	// SingleUseRefresh invalidates a refresh credential after its first use.
	SingleUseRefresh bool

	TokenHandler    HandlerFunc
	RefreshHandler  HandlerFunc
	RegisterHandler HandlerFunc
	ResourceHandler HandlerFunc

	mu       sync.Mutex
	nextID   int
	accounts map[string]*account
	vendors  []*vendorRecord
	fruits   []*schema.Fruit
	prices   []schema.Price
	used     *collection.SyncMap[string, bool]
	calls    map[string]int
}

// TestServer runs a Service behind an httptest server.
type TestServer struct {
	*Service
	*httptest.Server
}

// NewService creates a seeded exchange.
func NewService() *Service {
	ret := &Service{
		Secret:          []byte("exchange-mock-secret"),
		AccessTokenTTL:  30 * time.Minute,
		RefreshTokenTTL: 30 * 24 * time.Hour,
		accounts:        map[string]*account{},
		used:            collection.NewSyncMap[string, bool](),
		calls:           map[string]int{},
	}
	ret.seed()
	return ret
}

// NewTestServer starts a seeded exchange on a local port; callers must Close it.
func NewTestServer() *TestServer {
	service := NewService()
	return &TestServer{Service: service, Server: httptest.NewServer(&Handler{Service: service})}
}

// Calls returns how many requests hit path.
func (s *Service) Calls(path string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls[path]
}

// AddUser creates an account (and its vendor) without password rules.
func (s *Service) AddUser(username, password string) *schema.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.addUser(username, password)
}

func (s *Service) addUser(username, password string) *schema.User {
	s.nextID++
	anAccount := &account{user: schema.User{ID: s.nextID, Username: username, IsActive: true}, password: password}
	vendor := &vendorRecord{
		vendor:    schema.Vendor{ID: len(s.vendors) + 1, Name: "Vendor " + username, Species: "Human", HomeDimension: "Earth-1"},
		userID:    anAccount.user.ID,
		inventory: map[int]int{},
	}
	s.vendors = append(s.vendors, vendor)
	anAccount.vendorID = vendor.vendor.ID
	s.accounts[username] = anAccount
	user := anAccount.user
	return &user
}

// Stock sets the quantity of fruitID held by username's vendor.
func (s *Service) Stock(username string, fruitID, quantity int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if anAccount, ok := s.accounts[username]; ok {
		s.vendorByID(anAccount.vendorID).inventory[fruitID] = quantity
	}
}

func (s *Service) seed() {
	s.fruits = []*schema.Fruit{
		{ID: 1, Name: "Glorpberry", FlavorProfile: "sour,fizzy", DimensionOrigin: "Zeta-9", RarityLevel: 2, BaseValue: 4.5},
		{ID: 2, Name: "Quantum Kiwi", FlavorProfile: "sweet", DimensionOrigin: "Earth-616", RarityLevel: 5, BaseValue: 12},
		{ID: 3, Name: "Void Mango", FlavorProfile: "umami,cold", DimensionOrigin: "Nullspace", RarityLevel: 9, BaseValue: 40},
	}
	id := 0
	for _, fruit := range s.fruits {
		for day := 1; day <= 3; day++ {
			id++
			s.prices = append(s.prices, schema.Price{
				ID:      id,
				FruitID: fruit.ID,
				Date:    time.Date(2025, 7, day, 0, 0, 0, 0, time.UTC).Format(time.DateOnly),
				Price:   fruit.BaseValue + float64(day)/10,
			})
		}
	}
}

func (s *Service) vendorByID(id int) *vendorRecord {
	for _, candidate := range s.vendors {
		if candidate.vendor.ID == id {
			return candidate
		}
	}
	return nil
}

func (s *Service) fruitByID(id int) *schema.Fruit {
	for _, candidate := range s.fruits {
		if candidate.ID == id {
			return candidate
		}
	}
	return nil
}

func (v *vendorRecord) snapshot(fruits func(int) *schema.Fruit) schema.Vendor {
	ret := v.vendor
	ret.InventoryItems = []schema.InventoryItem{}
	for fruitID, quantity := range v.inventory {
		item := schema.InventoryItem{FruitID: fruitID, Quantity: quantity}
		if fruit := fruits(fruitID); fruit != nil {
			item.Fruit = *fruit
		}
		ret.InventoryItems = append(ret.InventoryItems, item)
	}
	return ret
}
