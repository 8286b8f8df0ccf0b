package registry

type Entity string

const (
	EntityRace    Entity = "race"
	EntityStage   Entity = "stage"
	EntitySegment Entity = "segment"
	EntityTeam    Entity = "team"
	EntityRider   Entity = "rider"
)

var entities = []Entity{EntityRace, EntityStage, EntitySegment, EntityTeam, EntityRider}

// IDGenerator hands out identifiers per entity kind.
type IDGenerator interface {
	Next(e Entity) int
	// Seen makes sure id is never handed out again for e
	Seen(e Entity, id int)
	Reset()
}

// Counters is the default IDGenerator. Identifiers start at 1.
type Counters map[Entity]int

func NewCounters() Counters {
	return Counters{}
}

func (c Counters) Next(e Entity) int {
	c[e]++
	return c[e]
}

func (c Counters) Seen(e Entity, id int) {
	c[e] = max(c[e], id)
}

func (c Counters) Reset() {
	clear(c)
}
