package main

import (
	"context"
	"flag"
	"os"
	"time"

	"bookstore/pkg/bookclient"
	"bookstore/pkg/logger"

	"golang.org/x/sync/errgroup"
)

func main() {
	baseURL := flag.String("url", "http://localhost:3000", "Bookstore Service base URL")
	isbn := flag.String("isbn", "9780123456789", "ISBN to look up")
	author := flag.String("author", "John Developer", "author to search for")
	title := flag.String("title", "JavaScript", "title to search for")
	timeout := flag.Duration("timeout", 10*time.Second, "overall timeout")
	flag.Parse()

	logger.Init("bookstore-client", os.Getenv("LOG_LEVEL"))

	client := bookclient.NewClient(*baseURL)

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	// Четыре запроса к каталогу выполняются одновременно
	var (
		all      []bookclient.Book
		byISBN   *bookclient.Book
		byAuthor []bookclient.Book
		byTitle  []bookclient.Book
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		all, err = client.GetAllBooks(gctx)
		return err
	})
	g.Go(func() (err error) {
		byISBN, err = client.GetBookByISBN(gctx, *isbn)
		return err
	})
	g.Go(func() (err error) {
		byAuthor, err = client.GetBooksByAuthor(gctx, *author)
		return err
	})
	g.Go(func() (err error) {
		byTitle, err = client.GetBooksByTitle(gctx, *title)
		return err
	})

	if err := g.Wait(); err != nil {
		logger.Fatal().Err(err).Msg("Catalog lookup failed")
	}

	logger.Info().Int("count", len(all)).Msg("All books")
	for _, b := range all {
		logger.Info().Str("isbn", b.ISBN).Str("title", b.Title).Str("author", b.Author).Float64("price", b.Price).Msg("Book")
	}
	logger.Info().Str("isbn", byISBN.ISBN).Str("title", byISBN.Title).Msg("Book by ISBN")
	logger.Info().Str("author", *author).Int("count", len(byAuthor)).Msg("Books by author")
	logger.Info().Str("title", *title).Int("count", len(byTitle)).Msg("Books by title")
}
