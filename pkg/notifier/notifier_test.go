package notifier

import (
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cuemby/rosmaster/pkg/xmlrpc"
)

// recordingServer captures every method called against it and its params,
// in arrival order, and always replies with a trivial success triple.
type recordingServer struct {
	mu      sync.Mutex
	methods []string
	params  [][]xmlrpc.Value
}

func (s *recordingServer) handler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		method, params, err := xmlrpc.DecodeCall(r.Body)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		s.mu.Lock()
		s.methods = append(s.methods, method)
		s.params = append(s.params, params)
		s.mu.Unlock()

		body, _ := xmlrpc.EncodeResponse(xmlrpc.Array([]xmlrpc.Value{
			xmlrpc.Int(1), xmlrpc.String(""), xmlrpc.Bool(true),
		}))
		w.Header().Set("Content-Type", "text/xml")
		w.Write(body)
	}
}

func (s *recordingServer) snapshot() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, len(s.methods))
	copy(out, s.methods)
	return out
}

func TestPublisherUpdateDeliversToEachSubscriber(t *testing.T) {
	rec := &recordingServer{}
	srv := httptest.NewServer(rec.handler())
	defer srv.Close()

	n := New()
	n.PublisherUpdate("/chatter", []string{"http://h:1"}, []string{srv.URL})

	require.Eventually(t, func() bool {
		return len(rec.snapshot()) == 1
	}, time.Second, 5*time.Millisecond)

	assert.Equal(t, []string{"publisherUpdate"}, rec.snapshot())
}

func TestParamUpdateDelivers(t *testing.T) {
	rec := &recordingServer{}
	srv := httptest.NewServer(rec.handler())
	defer srv.Close()

	n := New()
	n.ParamUpdate(srv.URL, "/robot/speed", xmlrpc.Double(2.0))

	require.Eventually(t, func() bool {
		return len(rec.snapshot()) == 1
	}, time.Second, 5*time.Millisecond)

	assert.Equal(t, []string{"paramUpdate"}, rec.snapshot())
}

func TestDeliveriesToSameSubscriberAreSerial(t *testing.T) {
	rec := &recordingServer{}
	srv := httptest.NewServer(rec.handler())
	defer srv.Close()

	n := New()
	for i := 0; i < 5; i++ {
		n.ParamUpdate(srv.URL, "/robot/speed", xmlrpc.Int(i))
	}

	require.Eventually(t, func() bool {
		return len(rec.snapshot()) == 5
	}, time.Second, 5*time.Millisecond)

	rec.mu.Lock()
	defer rec.mu.Unlock()
	for i, p := range rec.params {
		require.Len(t, p, 3)
		got, ok := p[2].AsInt()
		require.True(t, ok)
		assert.EqualValues(t, i, got)
	}
}

func TestUnreachableSubscriberIsDroppedNotRetried(t *testing.T) {
	n := New()
	n.timeout = 50 * time.Millisecond
	n.ParamUpdate("http://127.0.0.1:1", "/robot/speed", xmlrpc.Int(1))

	// No assertion beyond "this returns and doesn't hang" — delivery failure
	// is logged and dropped, never retried or surfaced to the caller.
	time.Sleep(100 * time.Millisecond)
}
