package sheet

import (
	"slices"
)

type mark uint8

const (
	unvisited mark = iota
	inProgress
	done
)

// frame is one level of the explicit DFS stack.
type frame struct {
	name string
	// next holds the dependents still to be visited.
	next []string
}

// recalculationOrder returns root followed by every cell that transitively
// depends on it, ordered so that each cell comes after all the cells in the
// result it depends on. It walks the dependents relation depth first with an
// explicit stack and reports a *CycleError if the walk reaches a cell that is
// still in progress. Caller must hold s.mu.
func (s *Sheet) recalculationOrder(root string) ([]string, error) {
	marks := map[string]mark{root: inProgress}
	stack := []frame{{name: root, next: s.graph.Dependents(root)}}
	var finished []string

	for len(stack) > 0 {
		top := &stack[len(stack)-1]
		if len(top.next) == 0 {
			marks[top.name] = done
			finished = append(finished, top.name)
			stack = stack[:len(stack)-1]
			continue
		}

		child := top.next[0]
		top.next = top.next[1:]

		switch marks[child] {
		case done:
			continue
		case inProgress:
			return nil, &CycleError{Cell: root, Path: cyclePath(stack, child)}
		}

		marks[child] = inProgress
		stack = append(stack, frame{name: child, next: s.graph.Dependents(child)})
	}

	slices.Reverse(finished)
	return finished, nil
}

// cyclePath extracts the cycle closed by an edge into child from the current
// DFS stack.
func cyclePath(stack []frame, child string) []string {
	start := slices.IndexFunc(stack, func(f frame) bool { return f.name == child })
	path := make([]string, 0, len(stack)-start+1)
	for _, f := range stack[start:] {
		path = append(path, f.name)
	}
	return append(path, child)
}
