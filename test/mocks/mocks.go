// test/mocks/mocks.go

// Package mocks contains generated mocks for the application's interfaces.
// To regenerate mocks, run `go generate ./test/mocks` from the root directory.
package mocks

//go:generate mockgen -source=../../internal/core/ports/sample_repository.go -destination=sample_repository_mock.go -package=mocks
//go:generate mockgen -source=../../internal/core/ports/sample_service.go -destination=sample_service_mock.go -package=mocks
//go:generate mockgen -source=../../internal/core/services/sample.go -destination=pgxpool_mock.go -package=mocks PgxPool
//go:generate mockgen -source=../../internal/core/ports/cache.go -destination=cache_repository_mock.go -package=mocks
