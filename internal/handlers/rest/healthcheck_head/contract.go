//go:generate mockgen -source=contract.go -destination=./contract_mocks_test.go -package=healthcheck_head_test
package healthcheck_head

import "context"

// Dependency то, без чего инстанс не готов принимать трафик (пул postgres).
type Dependency interface {
	Ping(ctx context.Context) error
}
