package transport_test

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"

	"github.com/jonwraymond/reqslots/exchange"
	"github.com/jonwraymond/reqslots/transport"
)

func ExampleNew() {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintf(w, "hello %s", r.URL.Query().Get("name"))
	}))
	defer srv.Close()

	tr := transport.New()
	resp, err := tr(context.Background(), &exchange.Request{
		BaseURL: srv.URL,
		URL:     "/greet",
		Params:  map[string][]string{"name": {"gopher"}},
	})
	if err != nil {
		fmt.Println("error:", err)
		return
	}
	fmt.Println(resp.Status, string(resp.Data))
	// Output:
	// 200 hello gopher
}
