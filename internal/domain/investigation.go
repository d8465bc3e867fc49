package domain

import "sync"

// Subject holds the identifiers an investigation is run for.
type Subject struct {
	Handle   string `json:"handle"`
	FullName string `json:"fullName"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Location string `json:"location"`
}

// Investigation is the accumulator of one run. All mutation goes through its methods,
// which are serialized; one Investigation is never shared between runs.
type Investigation struct {
	mu sync.Mutex

	subject          Subject
	platformsChecked []string
	checked          map[string]struct{}
	platformsFound   []string
	found            map[string]struct{}
	mentions         *Counter
	hashtags         *Counter
	connections      []string
	connectionSet    map[string]struct{}
}

func NewInvestigation(subject Subject) *Investigation {
	return &Investigation{
		subject:       subject,
		checked:       make(map[string]struct{}),
		found:         make(map[string]struct{}),
		mentions:      NewCounter(),
		hashtags:      NewCounter(),
		connectionSet: make(map[string]struct{}),
	}
}

func (inv *Investigation) Subject() Subject {
	return inv.subject
}

// MarkChecked records a platform in check order; repeats are ignored.
func (inv *Investigation) MarkChecked(platform string) bool {
	inv.mu.Lock()
	defer inv.mu.Unlock()
	if _, ok := inv.checked[platform]; ok {
		return false
	}
	inv.checked[platform] = struct{}{}
	inv.platformsChecked = append(inv.platformsChecked, platform)
	return true
}

// MarkFound appends a platform to platformsFound exactly once.
func (inv *Investigation) MarkFound(platform string) bool {
	inv.mu.Lock()
	defer inv.mu.Unlock()
	if _, ok := inv.found[platform]; ok {
		return false
	}
	inv.found[platform] = struct{}{}
	inv.platformsFound = append(inv.platformsFound, platform)
	return true
}

func (inv *Investigation) AddMention(tag string) {
	inv.mu.Lock()
	inv.mentions.Add(tag)
	inv.mu.Unlock()
}

func (inv *Investigation) AddHashtag(tag string) {
	inv.mu.Lock()
	inv.hashtags.Add(tag)
	inv.mu.Unlock()
}

func (inv *Investigation) AddConnection(handle string) bool {
	inv.mu.Lock()
	defer inv.mu.Unlock()
	if _, ok := inv.connectionSet[handle]; ok {
		return false
	}
	inv.connectionSet[handle] = struct{}{}
	inv.connections = append(inv.connections, handle)
	return true
}

// Snapshot is a read-only copy of the accumulator.
type Snapshot struct {
	Subject          Subject
	PlatformsChecked []string
	PlatformsFound   []string
	Mentions         *Counter
	Hashtags         *Counter
	Connections      []string
}

func (s Snapshot) PlatformCount() int { return len(s.PlatformsFound) }

func (inv *Investigation) Snapshot() Snapshot {
	inv.mu.Lock()
	defer inv.mu.Unlock()
	return Snapshot{
		Subject:          inv.subject,
		PlatformsChecked: append([]string(nil), inv.platformsChecked...),
		PlatformsFound:   append([]string(nil), inv.platformsFound...),
		Mentions:         inv.mentions.Clone(),
		Hashtags:         inv.hashtags.Clone(),
		Connections:      append([]string(nil), inv.connections...),
	}
}
