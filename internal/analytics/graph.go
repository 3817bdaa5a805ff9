package analytics

import "context"

type Node struct {
	ID   int
	Name string
}

// Edge links the customers with ids A and B, A stored before B in
// catalog order. Weight is the number of distinct products both have
// purchased.
type Edge struct {
	A, B   int
	Weight int
}

type Graph struct {
	Nodes []Node
	Edges []Edge
}

// CustomerGraph builds the affinity graph over all customers. Each
// unordered customer pair is compared once, so the graph is simple: no
// self edges and at most one edge per pair. The comparison is a set
// intersection of the customers' distinct purchased product ids.
func (a *Analyzer) CustomerGraph(ctx context.Context) (*Graph, error) {
	customers, err := a.src.GetAllCustomers(ctx)
	if err != nil {
		return nil, err
	}
	orders, err := a.src.GetAllOrders(ctx)
	if err != nil {
		return nil, err
	}

	productSets := make(map[int]map[int]struct{}, len(customers))
	for _, o := range orders {
		set := productSets[o.CustomerID]
		if set == nil {
			set = make(map[int]struct{})
			productSets[o.CustomerID] = set
		}
		for _, item := range o.Items {
			set[item.ProductID] = struct{}{}
		}
	}

	g := &Graph{Nodes: make([]Node, 0, len(customers))}
	for _, c := range customers {
		g.Nodes = append(g.Nodes, Node{ID: c.ID, Name: c.Name})
	}

	for i := 0; i < len(customers); i++ {
		for j := i + 1; j < len(customers); j++ {
			weight := intersectionSize(productSets[customers[i].ID], productSets[customers[j].ID])
			if weight > 0 {
				g.Edges = append(g.Edges, Edge{A: customers[i].ID, B: customers[j].ID, Weight: weight})
			}
		}
	}
	return g, nil
}

func intersectionSize(a, b map[int]struct{}) int {
	if len(b) < len(a) {
		a, b = b, a
	}
	n := 0
	for id := range a {
		if _, ok := b[id]; ok {
			n++
		}
	}
	return n
}
