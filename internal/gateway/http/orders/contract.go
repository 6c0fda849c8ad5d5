//go:generate mockgen -source=contract.go -destination=./contract_mocks_test.go -package=orders_test
package orders

import "net/http"

type httpClient interface {
	Do(req *http.Request) (*http.Response, error)
}
