package exchange

import (
	"context"
	"fmt"
	"strings"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"github.com/viant/afs"
	"github.com/viant/exchange/client"
	"github.com/viant/exchange/client/auth/store"
	"gopkg.in/yaml.v3"
)

const (
	// DefaultBaseURL is the exchange API address used when none is configured.
	DefaultBaseURL = "http://localhost:8000"

	StoreMemory = "memory"
	StoreFile   = "file"
	StoreDisk   = "disk"
	StoreRedis  = "redis"
	StoreSecret = "secret"
)

// ClientOptions
//
// defines options for configuring an exchange client.
type ClientOptions struct {
	BaseURL           string     `yaml:"baseURL,omitempty" json:"baseURL,omitempty"  short:"u" long:"url" description:"exchange base URL"`
	RefreshCoalescing bool       `yaml:"refreshCoalescing,omitempty" json:"refreshCoalescing,omitempty"  long:"coalesce" description:"share one credential refresh between concurrent calls"`
	Auth              ClientAuth `yaml:"auth,omitempty" json:"auth,omitempty" group:"credential store"`
}

// ClientAuth defines where the credential pair is persisted.
type ClientAuth struct {
	StoreType     string `yaml:"store,omitempty" json:"store,omitempty"  short:"s" long:"store" description:"credential store" choice:"memory" choice:"file" choice:"disk" choice:"redis" choice:"secret"`
	StoreURL      string `yaml:"storeURL,omitempty" json:"storeURL,omitempty"  long:"store-url" description:"file/secret store URL or disk store directory"`
	EncryptionKey string `yaml:"encryptionKey,omitempty" json:"encryptionKey,omitempty"  short:"k" long:"key" description:"secret store encryption key"`
	RedisAddr     string `yaml:"redisAddr,omitempty" json:"redisAddr,omitempty"  long:"redis-addr" description:"redis store address"`
	RedisPrefix   string `yaml:"redisPrefix,omitempty" json:"redisPrefix,omitempty"  long:"redis-prefix" description:"redis store key prefix"`

	// Store, if set, takes precedence over StoreType.
	Store store.Store `yaml:"-" json:"-"`
}

func (c *ClientOptions) Init() {
	if c.BaseURL == "" {
		c.BaseURL = DefaultBaseURL
	}
	if c.Auth.StoreType == "" {
		c.Auth.StoreType = StoreMemory
	}
}

// LoadClientOptions reads YAML client options from any afs supported URL.
func LoadClientOptions(ctx context.Context, URL string) (*ClientOptions, error) {
	fs := afs.New()
	data, err := fs.DownloadWithURL(ctx, URL)
	if err != nil {
		return nil, fmt.Errorf("failed to load client options %v: %w", URL, err)
	}
	ret := &ClientOptions{}
	if err = yaml.Unmarshal(data, ret); err != nil {
		return nil, fmt.Errorf("failed to decode client options %v: %w", URL, err)
	}
	ret.Init()
	return ret, nil
}

// NewStore creates the configured credential store.
func (a *ClientAuth) NewStore(ctx context.Context) (store.Store, error) {
	if a.Store != nil {
		return a.Store, nil
	}
	switch strings.ToLower(a.StoreType) {
	case "", StoreMemory:
		return store.NewMemoryStore(), nil
	case StoreFile:
		if a.StoreURL == "" {
			return nil, fmt.Errorf("store URL is required for %v store", StoreFile)
		}
		return store.NewFileStore(ctx, a.StoreURL), nil
	case StoreDisk:
		if a.StoreURL == "" {
			return nil, fmt.Errorf("store directory is required for %v store", StoreDisk)
		}
		return store.NewDiskStore(a.StoreURL), nil
	case StoreRedis:
		if a.RedisAddr == "" {
			return nil, fmt.Errorf("redis address is required for %v store", StoreRedis)
		}
		rdb := redis.NewClient(&redis.Options{Addr: a.RedisAddr})
		return store.NewRedisStore(rdb, a.RedisPrefix), nil
	case StoreSecret:
		if a.StoreURL == "" {
			return nil, fmt.Errorf("store URL is required for %v store", StoreSecret)
		}
		return store.NewSecretStore(ctx, a.StoreURL, a.EncryptionKey), nil
	}
	return nil, fmt.Errorf("unsupported credential store: %v", a.StoreType)
}

// NewClient creates an exchange client with its credential store and gateway configured via ClientOptions.
func NewClient(ctx context.Context, options *ClientOptions, opts ...client.Option) (*client.Client, error) {
	options.Init()
	aStore, err := options.Auth.NewStore(ctx)
	if err != nil {
		return nil, err
	}
	logrus.WithField("store", options.Auth.StoreType).Debug("credential store ready")
	clientOptions := []client.Option{
		client.WithStore(aStore),
		client.WithRefreshCoalescing(options.RefreshCoalescing),
	}
	return client.New(options.BaseURL, append(clientOptions, opts...)...)
}
