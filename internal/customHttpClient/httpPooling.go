package customHttpClient

import (
	"net/http"
	"sync"

	"github.com/johanvictor/FinDocAPI/internal/config"
)

var (
	once         sync.Once
	pooledClient *http.Client
)

var customTransport = &http.Transport{
	MaxIdleConns:        config.MaxIdleConns,
	MaxIdleConnsPerHost: config.MaxIdleConnsPerHost,
	IdleConnTimeout:     config.IdleConnTimeout,
}

// GetPooledClient reuses connections across model calls, one analysis can
// issue several of them back to back.
func GetPooledClient() *http.Client {
	once.Do(func() {
		pooledClient = &http.Client{Transport: customTransport}
	})
	return pooledClient
}
