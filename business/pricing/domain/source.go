// Package domain contains the price observation model shared by every price source.
package domain

import "fmt"

// SourceID is the stable key of a price source: "coingecko", "feed:bnb", "dex:bnb:pancakeswap".
type SourceID string

// SourceKind groups sources by how they obtain a price.
type SourceKind string

const (
	KindREST SourceKind = "rest"
	KindFeed SourceKind = "feed"
	KindDEX  SourceKind = "dex"
)

// RESTSourceID returns the id of a centralized API source.
func RESTSourceID(name string) SourceID {
	return SourceID(name)
}

// FeedSourceID returns the id of a chain's aggregator feed.
func FeedSourceID(chainID string) SourceID {
	return SourceID("feed:" + chainID)
}

// DEXSourceID returns the id of a router on a chain.
func DEXSourceID(chainID, dex string) SourceID {
	return SourceID(fmt.Sprintf("dex:%s:%s", chainID, dex))
}

// SourceDescriptor identifies a source and what it quotes.
type SourceDescriptor struct {
	ID    SourceID
	Kind  SourceKind
	Name  string
	Chain string // empty for REST sources
	Pair  string
}
