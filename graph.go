package mulegraph

import "sort"

// edgeKey identifies a directed (sender, receiver) pair.
type edgeKey struct {
	From string
	To   string
}

// Graph is the read-only structure every detector walks. It is the sole
// owner of its adjacency and transaction lists; detectors borrow it.
type Graph struct {
	// Nodes is every account that appears as a sender or receiver at least
	// once, sorted lexicographically ascending — the iteration order every
	// downstream stage must use for determinism.
	Nodes []string

	// OutAdj/InAdj map a node to its sorted-ascending neighbor list.
	OutAdj map[string][]string
	InAdj  map[string][]string

	// OutTx/InTx map a node to the transactions where it is sender/receiver,
	// sorted time-ascending (ties broken by original input index).
	OutTx map[string][]Transaction
	InTx  map[string][]Transaction

	// EdgeTx maps a directed pair to its transactions, time-ascending.
	EdgeTx map[edgeKey][]Transaction

	// Degree is total incident-transaction count (in + out) per node.
	Degree map[string]int

	nodeSet map[string]struct{}
}

type indexedTxn struct {
	txn Transaction
	idx int
}

// BuildGraph ingests a transaction sequence and constructs the graph in a
// single pass, then stabilizes every list by timestamp ascending (ties by
// original index). The builder is the only writer; everything returned is
// read-only thereafter.
func BuildGraph(txns []Transaction) *Graph {
	g := &Graph{
		OutAdj:  make(map[string][]string),
		InAdj:   make(map[string][]string),
		OutTx:   make(map[string][]Transaction),
		InTx:    make(map[string][]Transaction),
		EdgeTx:  make(map[edgeKey][]Transaction),
		Degree:  make(map[string]int),
		nodeSet: make(map[string]struct{}),
	}

	outAdjSet := make(map[string]map[string]struct{})
	inAdjSet := make(map[string]map[string]struct{})
	outRaw := make(map[string][]indexedTxn)
	inRaw := make(map[string][]indexedTxn)
	edgeRaw := make(map[edgeKey][]indexedTxn)

	for i, t := range txns {
		g.nodeSet[t.Sender] = struct{}{}
		g.nodeSet[t.Receiver] = struct{}{}

		if outAdjSet[t.Sender] == nil {
			outAdjSet[t.Sender] = make(map[string]struct{})
		}
		outAdjSet[t.Sender][t.Receiver] = struct{}{}

		if inAdjSet[t.Receiver] == nil {
			inAdjSet[t.Receiver] = make(map[string]struct{})
		}
		inAdjSet[t.Receiver][t.Sender] = struct{}{}

		it := indexedTxn{txn: t, idx: i}
		outRaw[t.Sender] = append(outRaw[t.Sender], it)
		inRaw[t.Receiver] = append(inRaw[t.Receiver], it)

		ek := edgeKey{From: t.Sender, To: t.Receiver}
		edgeRaw[ek] = append(edgeRaw[ek], it)

		g.Degree[t.Sender]++
		g.Degree[t.Receiver]++
	}

	byTimeThenIndex := func(list []indexedTxn) {
		sort.Slice(list, func(i, j int) bool {
			if list[i].txn.Timestamp != list[j].txn.Timestamp {
				return list[i].txn.Timestamp < list[j].txn.Timestamp
			}
			return list[i].idx < list[j].idx
		})
	}

	for node, list := range outRaw {
		byTimeThenIndex(list)
		g.OutTx[node] = flatten(list)
	}
	for node, list := range inRaw {
		byTimeThenIndex(list)
		g.InTx[node] = flatten(list)
	}
	for ek, list := range edgeRaw {
		byTimeThenIndex(list)
		g.EdgeTx[ek] = flatten(list)
	}

	for node, set := range outAdjSet {
		g.OutAdj[node] = sortedKeys(set)
	}
	for node, set := range inAdjSet {
		g.InAdj[node] = sortedKeys(set)
	}

	g.Nodes = sortedKeysFromSet(g.nodeSet)

	return g
}

func flatten(list []indexedTxn) []Transaction {
	out := make([]Transaction, len(list))
	for i, it := range list {
		out[i] = it.txn
	}
	return out
}

func sortedKeys(set map[string]struct{}) []string {
	out := make([]string, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

func sortedKeysFromSet(set map[string]struct{}) []string {
	return sortedKeys(set)
}

// HasNode reports whether id is a known account.
func (g *Graph) HasNode(id string) bool {
	_, ok := g.nodeSet[id]
	return ok
}

// OutDegree is the number of distinct out-neighbors (unique receivers).
func (g *Graph) OutDegree(id string) int {
	return len(g.OutAdj[id])
}

// InDegree is the number of distinct in-neighbors (unique senders).
func (g *Graph) InDegree(id string) int {
	return len(g.InAdj[id])
}
