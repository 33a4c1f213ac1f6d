package enhance_test

import (
	"context"
	"fmt"
	"sync/atomic"

	"github.com/jonwraymond/reqslots/enhance"
	"github.com/jonwraymond/reqslots/exchange"
)

func ExampleNew() {
	var calls atomic.Int32
	transport := func(_ context.Context, req *exchange.Request) (*exchange.Response, error) {
		calls.Add(1)
		return &exchange.Response{Status: 200, Data: []byte("hello"), Request: req}, nil
	}

	client, err := enhance.New(transport)
	if err != nil {
		fmt.Println("error:", err)
		return
	}

	ctx := context.Background()
	for i := 0; i < 3; i++ {
		resp, _ := client.Get(ctx, "https://api.example.com/greeting")
		fmt.Println(string(resp.Data))
	}
	fmt.Println("transport calls:", calls.Load())
	// Output:
	// hello
	// hello
	// hello
	// transport calls: 1
}

func ExampleSkipCache() {
	var calls atomic.Int32
	transport := func(_ context.Context, req *exchange.Request) (*exchange.Response, error) {
		calls.Add(1)
		return &exchange.Response{Status: 200, Request: req}, nil
	}
	client, _ := enhance.New(transport)

	ctx := enhance.SkipCache(context.Background())
	_, _ = client.Get(ctx, "https://api.example.com/now")
	_, _ = client.Get(ctx, "https://api.example.com/now")
	fmt.Println("transport calls:", calls.Load())
	// Output:
	// transport calls: 2
}
