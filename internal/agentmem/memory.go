// Package agentmem implements an agent's memory subsystems: an episodic
// log, a bounded working-memory focus list, a reconstruction history, and
// a long-term knowledge store with importance-based eviction.
package agentmem

import (
	"sort"
	"time"
)

const (
	// WorkingFocusCap bounds the working-memory focus list.
	WorkingFocusCap = 5

	// LongTermCap bounds the long-term knowledge store. Insertions beyond
	// the cap evict the lowest-importance item, ties broken by oldest.
	LongTermCap = 25

	// EpisodicCap bounds the episodic log; the oldest episodes fall off.
	EpisodicCap = 50

	// ReconstructionCap bounds the reconstruction history.
	ReconstructionCap = 20
)

// Episode is a single episodic memory.
type Episode struct {
	Description string    `json:"description" yaml:"description"`
	Salience    float64   `json:"salience" yaml:"salience"`
	Timestamp   time.Time `json:"timestamp" yaml:"timestamp"`
}

// Reconstruction records a re-interpretation of past experience.
type Reconstruction struct {
	Summary   string    `json:"summary" yaml:"summary"`
	Timestamp time.Time `json:"timestamp" yaml:"timestamp"`
}

// KnowledgeKind categorizes long-term knowledge items.
type KnowledgeKind string

const (
	KnowledgeReflectionInsight KnowledgeKind = "reflection_insight"
	KnowledgeInsightTransfer   KnowledgeKind = "insight_transfer"
	KnowledgeObservation       KnowledgeKind = "observation"
)

// KnowledgeItem is a long-term knowledge entry retained by importance.
type KnowledgeItem struct {
	Kind       KnowledgeKind `json:"kind" yaml:"kind"`
	Content    string        `json:"content" yaml:"content"`
	Importance float64       `json:"importance" yaml:"importance"`
	CreatedAt  time.Time     `json:"created_at" yaml:"created_at"`
}

// Memory holds all of an agent's memory subsystems.
type Memory struct {
	Episodic        []Episode        `json:"episodic" yaml:"episodic"`
	WorkingFocus    []string         `json:"working_focus" yaml:"working_focus"`
	Reconstructions []Reconstruction `json:"reconstructions" yaml:"reconstructions"`
	LongTerm        []KnowledgeItem  `json:"long_term" yaml:"long_term"`
}

// AddEpisode appends an episodic memory, dropping the oldest episode
// once the cap is reached.
func (m *Memory) AddEpisode(description string, salience float64, now time.Time) {
	m.Episodic = append(m.Episodic, Episode{
		Description: description,
		Salience:    salience,
		Timestamp:   now,
	})
	if len(m.Episodic) > EpisodicCap {
		m.Episodic = m.Episodic[len(m.Episodic)-EpisodicCap:]
	}
}

// Focus pushes an item onto the working-memory focus list, evicting the
// oldest entry once the cap is reached. Refocusing an item already present
// moves it to the front instead of duplicating it.
func (m *Memory) Focus(item string) {
	for i, existing := range m.WorkingFocus {
		if existing == item {
			m.WorkingFocus = append(m.WorkingFocus[:i], m.WorkingFocus[i+1:]...)
			break
		}
	}
	m.WorkingFocus = append([]string{item}, m.WorkingFocus...)
	if len(m.WorkingFocus) > WorkingFocusCap {
		m.WorkingFocus = m.WorkingFocus[:WorkingFocusCap]
	}
}

// AddReconstruction appends to the reconstruction history, dropping the
// oldest entry once the cap is reached.
func (m *Memory) AddReconstruction(summary string, now time.Time) {
	m.Reconstructions = append(m.Reconstructions, Reconstruction{
		Summary:   summary,
		Timestamp: now,
	})
	if len(m.Reconstructions) > ReconstructionCap {
		m.Reconstructions = m.Reconstructions[len(m.Reconstructions)-ReconstructionCap:]
	}
}

// AddKnowledge inserts a long-term knowledge item. When the store is at
// capacity, the lowest-importance item is evicted first; importance ties
// evict the oldest item.
func (m *Memory) AddKnowledge(item KnowledgeItem) {
	m.LongTerm = append(m.LongTerm, item)
	if len(m.LongTerm) <= LongTermCap {
		return
	}

	evict := 0
	for i, k := range m.LongTerm {
		if k.Importance < m.LongTerm[evict].Importance {
			evict = i
		} else if k.Importance == m.LongTerm[evict].Importance &&
			k.CreatedAt.Before(m.LongTerm[evict].CreatedAt) {
			evict = i
		}
	}
	m.LongTerm = append(m.LongTerm[:evict], m.LongTerm[evict+1:]...)
}

// TopKnowledge returns up to n knowledge items ordered by importance,
// then recency.
func (m *Memory) TopKnowledge(n int) []KnowledgeItem {
	items := make([]KnowledgeItem, len(m.LongTerm))
	copy(items, m.LongTerm)
	sort.Slice(items, func(i, j int) bool {
		if items[i].Importance != items[j].Importance {
			return items[i].Importance > items[j].Importance
		}
		return items[i].CreatedAt.After(items[j].CreatedAt)
	})
	if len(items) > n {
		items = items[:n]
	}
	return items
}
