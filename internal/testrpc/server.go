/*
Package testrpc provides a JSON-RPC node stub for tests: it answers every
method with a canned result and records the requests it gets.
*/
package testrpc

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
)

// Request is a request received by the Server.
type Request struct {
	JSONRPC string            `json:"jsonrpc"`
	Method  string            `json:"method"`
	Params  []json.RawMessage `json:"params"`
	ID      json.RawMessage   `json:"id"`
}

// Server is a node stub. Results maps method names to raw JSON results,
// methods that are not there get "method not found" error.
type Server struct {
	*httptest.Server

	lock     sync.Mutex
	results  map[string]string
	requests []Request
}

// NewServer starts a Server with the given results, it's closed when the
// test ends.
func NewServer(t *testing.T, results map[string]string) *Server {
	s := &Server{results: results}
	s.Server = httptest.NewServer(http.HandlerFunc(s.handle))
	t.Cleanup(s.Close)
	return s
}

// Set sets the result for the method.
func (s *Server) Set(method, result string) {
	s.lock.Lock()
	defer s.lock.Unlock()
	s.results[method] = result
}

// Requests returns the requests received so far.
func (s *Server) Requests() []Request {
	s.lock.Lock()
	defer s.lock.Unlock()
	return append([]Request(nil), s.requests...)
}

// Methods returns the methods called so far in the order of calls.
func (s *Server) Methods() []string {
	reqs := s.Requests()
	res := make([]string, len(reqs))
	for i := range reqs {
		res[i] = reqs[i].Method
	}
	return res
}

func (s *Server) handle(w http.ResponseWriter, req *http.Request) {
	var r Request
	if err := json.NewDecoder(req.Body).Decode(&r); err != nil {
		w.WriteHeader(http.StatusBadRequest)
		return
	}
	s.lock.Lock()
	s.requests = append(s.requests, r)
	res, ok := s.results[r.Method]
	s.lock.Unlock()

	id := string(r.ID)
	if id == "" {
		id = "null"
	}
	w.Header().Set("Content-Type", "application/json")
	if !ok {
		_, _ = w.Write([]byte(`{"jsonrpc":"2.0","id":` + id + `,"error":{"code":-32601,"message":"Method not found"}}`))
		return
	}
	_, _ = w.Write([]byte(`{"jsonrpc":"2.0","id":` + id + `,"result":` + res + `}`))
}

// VersionResult is a `getversion` result for the unit test network (42).
const VersionResult = `{"tcpport":20332,"wsport":20342,"nonce":2153672787,"useragent":"/NEO-GO:0.105.0/","protocol":{"network":42,"addressversion":53,"msperblock":15000,"maxtraceableblocks":2102400,"maxvaliduntilblockincrement":5760,"maxtransactionsperblock":512,"memorypoolmaxtransactions":50000,"validatorscount":1,"initialgasdistribution":5200000000000000,"hardforks":[],"standbycommittee":[],"seedlist":[]},"rpc":{"maxiteratorresultitems":100,"sessionenabled":true}}`
