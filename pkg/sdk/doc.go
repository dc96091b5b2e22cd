// Package moviedex provides a Go client for the moviedex movie search API.
//
//	client := moviedex.New("http://localhost:8080")
//	token, _ := client.Login(ctx, "alice@example.com", "s3cret")
//	client = client.WithToken(token)
//
//	res, _ := client.Search(ctx, moviedex.SearchParams{
//	    Query: "matrix",
//	    Genre: "Action",
//	    Limit: 10,
//	})
//	for _, m := range res.Movies {
//	    fmt.Println(m.Title)
//	}
package moviedex
