package categorize

// trie indexes terms by prefix for completion hints.
type trie struct {
	root *trieNode
}

type trieNode struct {
	children   map[rune]*trieNode
	categories map[string]bool
}

func newTrie() *trie {
	return &trie{root: newTrieNode()}
}

func newTrieNode() *trieNode {
	return &trieNode{children: make(map[rune]*trieNode)}
}

func (t *trie) insert(word, category string) {
	node := t.root
	for _, r := range word {
		next, ok := node.children[r]
		if !ok {
			next = newTrieNode()
			node.children[r] = next
		}
		node = next
	}
	if node.categories == nil {
		node.categories = make(map[string]bool)
	}
	node.categories[category] = true
}

// collect returns the set of categories reachable below prefix.
func (t *trie) collect(prefix string) map[string]bool {
	node := t.root
	for _, r := range prefix {
		next, ok := node.children[r]
		if !ok {
			return nil
		}
		node = next
	}

	found := make(map[string]bool)
	var walk func(n *trieNode)
	walk = func(n *trieNode) {
		for c := range n.categories {
			found[c] = true
		}
		for _, child := range n.children {
			walk(child)
		}
	}
	walk(node)
	return found
}
