package cache_test

import (
	"context"
	"fmt"
	"time"

	"github.com/jonwraymond/reqslots/cache"
	"github.com/jonwraymond/reqslots/exchange"
)

func ExampleEngine_Hit() {
	calls := 0
	transport := func(ctx context.Context, req *exchange.Request) (*exchange.Response, error) {
		calls++
		return &exchange.Response{Status: 200, Data: []byte("hello"), Request: req}, nil
	}

	engine := cache.NewEngine(cache.Options{MaxAge: time.Minute})
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		resp, _ := engine.Hit(ctx, &exchange.Request{URL: "https://example.com/greeting"}, transport)
		fmt.Println(string(resp.Data))
	}
	fmt.Println("transport calls:", calls)
	// Output:
	// hello
	// hello
	// hello
	// transport calls: 1
}

func ExampleOptions_Merge() {
	global := cache.DefaultOptions()
	perRequest := exchange.With(cache.Options{MaxAge: 30 * time.Second})

	fmt.Println(global.Merge(perRequest).EffectiveMaxAge())
	fmt.Println(global.Merge(exchange.Force[cache.Options](false)).Enabled())
	// Output:
	// 30s
	// false
}
