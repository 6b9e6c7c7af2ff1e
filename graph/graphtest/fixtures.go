package graphtest

import (
	"github.com/brandonshearin/relgraph/graph"
	"github.com/brandonshearin/relgraph/tabular"
	gc "gopkg.in/check.v1"
)

/*ChainGraph returns the five-vertex chain 1-2-3-4-5 with each edge
stored once.*/
func ChainGraph(c *gc.C, be tabular.Backend) *graph.Graph {
	nodes := make([][]any, 0, 5)
	for id := int64(1); id <= 5; id++ {
		nodes = append(nodes, []any{id})
	}
	edges := make([][]any, 0, 4)
	for src := int64(1); src < 5; src++ {
		edges = append(edges, []any{src, src + 1})
	}
	return fromRows(c, be, nodes, edges)
}

// karateEdges are the 78 undirected edges of Zachary's karate club,
// each stored once. https://en.wikipedia.org/wiki/Zachary%27s_karate_club
var karateEdges = [][2]int64{
	{2, 1}, {3, 1}, {3, 2}, {4, 1}, {4, 2}, {4, 3}, {5, 1}, {6, 1},
	{7, 1}, {7, 5}, {7, 6}, {8, 1}, {8, 2}, {8, 3}, {8, 4}, {9, 1},
	{9, 3}, {10, 3}, {11, 1}, {11, 5}, {11, 6}, {12, 1}, {13, 1},
	{13, 4}, {14, 1}, {14, 2}, {14, 3}, {14, 4}, {17, 6}, {17, 7},
	{18, 1}, {18, 2}, {20, 1}, {20, 2}, {22, 1}, {22, 2}, {26, 24},
	{26, 25}, {28, 3}, {28, 24}, {28, 25}, {29, 3}, {30, 24}, {30, 27},
	{31, 2}, {31, 9}, {32, 1}, {32, 25}, {32, 26}, {32, 29}, {33, 3},
	{33, 9}, {33, 15}, {33, 16}, {33, 19}, {33, 21}, {33, 23}, {33, 24},
	{33, 30}, {33, 31}, {33, 32}, {34, 9}, {34, 10}, {34, 14}, {34, 15},
	{34, 16}, {34, 19}, {34, 20}, {34, 21}, {34, 23}, {34, 24}, {34, 27},
	{34, 28}, {34, 29}, {34, 30}, {34, 31}, {34, 32}, {34, 33},
}

// KarateClub returns Zachary's karate club as an undirected graph.
func KarateClub(c *gc.C, be tabular.Backend) *graph.Graph {
	nodes := make([][]any, 0, 34)
	for id := int64(1); id <= 34; id++ {
		nodes = append(nodes, []any{id})
	}
	edges := make([][]any, 0, len(karateEdges))
	for _, e := range karateEdges {
		edges = append(edges, []any{e[0], e[1]})
	}
	return fromRows(c, be, nodes, edges)
}

func fromRows(c *gc.C, be tabular.Backend, nodes, edges [][]any) *graph.Graph {
	nodeRel, err := be.FromRows([]string{"id"}, nodes)
	c.Assert(err, gc.IsNil)
	edgeRel, err := be.FromRows([]string{"src", "dst"}, edges)
	c.Assert(err, gc.IsNil)

	g, err := graph.New(be, nodeRel, edgeRel)
	c.Assert(err, gc.IsNil)
	return g
}
