// Package metrics provides Prometheus metrics for observability.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "movielobby"

var (
	// CacheOperationsTotal tracks catalog cache operations.
	// Labels:
	//   - operation: get, set, delete
	//   - status: hit, miss, success, error
	CacheOperationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cache_operations_total",
			Help:      "Total number of catalog cache operations",
		},
		[]string{"operation", "status"},
	)

	// CatalogOperationsTotal tracks catalog service operations.
	// Labels:
	//   - operation: list, search, create, update, remove
	//   - status: success, not_found, error
	CatalogOperationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "catalog_operations_total",
			Help:      "Total number of catalog operations",
		},
		[]string{"operation", "status"},
	)

	// SingleflightRequestsTotal tracks list-snapshot flight coalescing.
	// Labels:
	//   - result: initiated (new execution), shared (reused result)
	SingleflightRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "singleflight_requests_total",
			Help:      "Total number of singleflight requests",
		},
		[]string{"result"},
	)
)

// Cache operation status constants.
const (
	CacheStatusHit     = "hit"
	CacheStatusMiss    = "miss"
	CacheStatusSuccess = "success"
	CacheStatusError   = "error"
)

// Cache operation type constants.
const (
	CacheOpGet    = "get"
	CacheOpSet    = "set"
	CacheOpDelete = "delete"
)

// Catalog operation constants.
const (
	CatalogOpList   = "list"
	CatalogOpSearch = "search"
	CatalogOpCreate = "create"
	CatalogOpUpdate = "update"
	CatalogOpRemove = "remove"
)

// Catalog operation status constants.
const (
	CatalogStatusSuccess  = "success"
	CatalogStatusNotFound = "not_found"
	CatalogStatusError    = "error"
)

// Singleflight result constants.
const (
	SingleflightInitiated = "initiated"
	SingleflightShared    = "shared"
)
