package couchfetch_test

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"

	"github.com/oliverdm/couchfetch"
)

func ExampleBuild() {
	c, err := couchfetch.Build(
		couchfetch.WithURL("http://127.0.0.1:5984"),
		couchfetch.WithSessionAuth("admin", "secret"),
		couchfetch.WithTimeout(10),
	)
	if err != nil {
		fmt.Println("error:", err)
		return
	}

	_ = c
	fmt.Println("client built")
	// Output: client built
}

func ExampleClient_Get() {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"ok":true}`))
	}))
	defer ts.Close()

	c, err := couchfetch.Build(couchfetch.WithURL(ts.URL))
	if err != nil {
		fmt.Println("error:", err)
		return
	}

	resp, err := c.Get(context.Background(), "/db/doc-1")
	if err != nil {
		fmt.Println("error:", err)
		return
	}

	fmt.Println(resp.StatusCode(), resp.ContentType())
	// Output: 200 application/json
}
