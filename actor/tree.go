/*
 * MIT License
 *
 * Copyright (c) 2024-2026 Loom Labs
 *
 * Permission is hereby granted, free of charge, to any person obtaining a copy
 * of this software and associated documentation files (the "Software"), to deal
 * in the Software without restriction, including without limitation the rights
 * to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
 * copies of the Software, and to permit persons to whom the Software is
 * furnished to do so, subject to the following conditions:
 *
 * The above copyright notice and this permission notice shall be included in all
 * copies or substantial portions of the Software.
 *
 * THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
 * IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
 * FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
 * AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
 * LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
 * OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
 * SOFTWARE.
 */

package actor

import (
	"github.com/loomlabs/loom/internal/collection"
	"github.com/loomlabs/loom/internal/shardedmap"
)

// treeNode is a supervision tree entry. Relationships are stored as actor
// IDs rather than pointers so a node can be dropped without chasing cycles.
type treeNode struct {
	pid      *PID
	parentID string
	children *collection.List[*PID]
	watchers *collection.List[*PID]
	watchees *collection.List[*PID]
}

// tree is the supervision hierarchy of an actor system. Nodes are keyed by
// actor ID in a sharded map so concurrent spawns and stops on different
// branches do not contend.
type tree struct {
	nodes *shardedmap.Map[*treeNode]
}

func newTree() *tree {
	return &tree{nodes: shardedmap.New[*treeNode]()}
}

// addNode registers the given PID under the given parent. A nil parent
// registers a root node.
func (t *tree) addNode(parent, pid *PID) {
	node := &treeNode{
		pid:      pid,
		children: collection.NewList[*PID](),
		watchers: collection.NewList[*PID](),
		watchees: collection.NewList[*PID](),
	}
	if parent != nil {
		node.parentID = parent.ID()
		if parentNode, ok := t.nodes.Get(parent.ID()); ok {
			parentNode.children.Append(pid)
		}
	}
	t.nodes.Set(pid.ID(), node)
}

// deleteNode drops the PID and its whole subtree from the hierarchy.
func (t *tree) deleteNode(pid *PID) {
	node, ok := t.nodes.Get(pid.ID())
	if !ok {
		return
	}
	for _, child := range node.children.Items() {
		t.deleteNode(child)
	}
	if parentNode, ok := t.nodes.Get(node.parentID); ok {
		items := parentNode.children.Items()
		for i, child := range items {
			if child.ID() == pid.ID() {
				parentNode.children.Delete(i)
				break
			}
		}
	}
	t.nodes.Delete(pid.ID())
}

// parent returns the parent PID, or nil for a root node.
func (t *tree) parent(pid *PID) *PID {
	node, ok := t.nodes.Get(pid.ID())
	if !ok || node.parentID == "" {
		return nil
	}
	parentNode, ok := t.nodes.Get(node.parentID)
	if !ok {
		return nil
	}
	return parentNode.pid
}

// children returns a snapshot of the direct children of the PID.
func (t *tree) children(pid *PID) []*PID {
	node, ok := t.nodes.Get(pid.ID())
	if !ok {
		return nil
	}
	return node.children.Items()
}

// addWatcher records that watcher wants a Terminated notice when watched
// stops.
func (t *tree) addWatcher(watched, watcher *PID) {
	if node, ok := t.nodes.Get(watched.ID()); ok {
		node.watchers.Append(watcher)
	}
	if node, ok := t.nodes.Get(watcher.ID()); ok {
		node.watchees.Append(watched)
	}
}

// removeWatcher cancels a prior addWatcher.
func (t *tree) removeWatcher(watched, watcher *PID) {
	if node, ok := t.nodes.Get(watched.ID()); ok {
		items := node.watchers.Items()
		for i, w := range items {
			if w.ID() == watcher.ID() {
				node.watchers.Delete(i)
				break
			}
		}
	}
	if node, ok := t.nodes.Get(watcher.ID()); ok {
		items := node.watchees.Items()
		for i, w := range items {
			if w.ID() == watched.ID() {
				node.watchees.Delete(i)
				break
			}
		}
	}
}

// watchers returns a snapshot of the PIDs watching the given actor.
func (t *tree) watchers(pid *PID) []*PID {
	node, ok := t.nodes.Get(pid.ID())
	if !ok {
		return nil
	}
	return node.watchers.Items()
}

// reset drops the whole hierarchy.
func (t *tree) reset() {
	t.nodes.Reset()
}
