package game

// MessageWorldUpdate tags a world snapshot on the wire.
const MessageWorldUpdate = 0

// Records carry only what clients need. Field names are kept short on the
// wire; changing them breaks clients.

type PlayerRecord struct {
	ID         string  `json:"id" msgpack:"id"`
	X          float64 `json:"x" msgpack:"x"`
	Y          float64 `json:"y" msgpack:"y"`
	Heading    float64 `json:"d" msgpack:"d"`
	Health     int     `json:"h" msgpack:"h"`
	Weapon     int     `json:"w" msgpack:"w"`
	Ammo       int     `json:"a" msgpack:"a"`
	Dead       bool    `json:"dead" msgpack:"dead"`
	Character  int     `json:"n" msgpack:"n"`
	Sound      int     `json:"s" msgpack:"s"`
	SoundCount int     `json:"sC" msgpack:"sC"`
	WeaponUses int     `json:"wC" msgpack:"wC"`
}

type AlienRecord struct {
	ID         int64   `json:"id" msgpack:"id"`
	X          float64 `json:"x" msgpack:"x"`
	Y          float64 `json:"y" msgpack:"y"`
	Heading    float64 `json:"d" msgpack:"d"`
	Health     int     `json:"h" msgpack:"h"`
	Costume    int     `json:"c" msgpack:"c"`
	Sound      int     `json:"s" msgpack:"s"`
	SoundCount int     `json:"sC" msgpack:"sC"`
}

type PickupRecord struct {
	ID     int64   `json:"id" msgpack:"id"`
	X      float64 `json:"x" msgpack:"x"`
	Y      float64 `json:"y" msgpack:"y"`
	Weapon int     `json:"n" msgpack:"n"`
}

type BulletRecord struct {
	ID int64   `json:"id" msgpack:"id"`
	X  float64 `json:"x" msgpack:"x"`
	Y  float64 `json:"y" msgpack:"y"`
}

// Snapshot is the client-visible world after a tick.
type Snapshot struct {
	Type     int            `json:"t" msgpack:"t"`
	Level    string         `json:"l" msgpack:"l"`
	WidthPx  int            `json:"lW" msgpack:"lW"`
	HeightPx int            `json:"lH" msgpack:"lH"`
	Players  []PlayerRecord `json:"p" msgpack:"p"`
	Aliens   []AlienRecord  `json:"a" msgpack:"a"`
	Pickups  []PickupRecord `json:"w" msgpack:"w"`
	Bullets  []BulletRecord `json:"b" msgpack:"b"`
}

// Equal compares two snapshots field by field, including every record in
// order. Nil and empty collections are equal.
func (s Snapshot) Equal(o Snapshot) bool {
	if s.Type != o.Type || s.Level != o.Level || s.WidthPx != o.WidthPx || s.HeightPx != o.HeightPx {
		return false
	}
	return recordsEqual(s.Players, o.Players) &&
		recordsEqual(s.Aliens, o.Aliens) &&
		recordsEqual(s.Pickups, o.Pickups) &&
		recordsEqual(s.Bullets, o.Bullets)
}

func recordsEqual[R comparable](a, b []R) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// Clone returns a copy sharing no memory with s.
func (s Snapshot) Clone() Snapshot {
	c := s
	c.Players = cloneRecords(s.Players)
	c.Aliens = cloneRecords(s.Aliens)
	c.Pickups = cloneRecords(s.Pickups)
	c.Bullets = cloneRecords(s.Bullets)
	return c
}

func cloneRecords[R any](in []R) []R {
	out := make([]R, len(in))
	copy(out, in)
	return out
}

// snapshot builds the records for the current world state.
func (w *World) snapshot() Snapshot {
	s := w.emptySnapshot()
	for _, p := range w.sessions.Players() {
		s.Players = append(s.Players, PlayerRecord{
			ID:         p.ID,
			X:          p.X,
			Y:          p.Y,
			Heading:    p.Heading,
			Health:     p.Health,
			Weapon:     p.Weapon.N,
			Ammo:       p.Ammo(),
			Dead:       p.Dead,
			Character:  p.Character,
			Sound:      p.Sound,
			SoundCount: p.SoundCount,
			WeaponUses: p.WeaponUses,
		})
	}
	for _, a := range w.aliens {
		s.Aliens = append(s.Aliens, AlienRecord{
			ID:         a.ID,
			X:          a.X,
			Y:          a.Y,
			Heading:    a.Heading,
			Health:     a.Health,
			Costume:    a.Costume,
			Sound:      a.Sound,
			SoundCount: a.SoundCount,
		})
	}
	for _, p := range w.pickups {
		s.Pickups = append(s.Pickups, PickupRecord{ID: p.ID, X: p.X, Y: p.Y, Weapon: p.Type.N})
	}
	for _, b := range w.bullets {
		s.Bullets = append(s.Bullets, BulletRecord{ID: b.ID, X: b.X, Y: b.Y})
	}
	return s
}

func (w *World) emptySnapshot() Snapshot {
	return Snapshot{
		Type:     MessageWorldUpdate,
		Level:    w.level.Name,
		WidthPx:  w.level.WidthPx,
		HeightPx: w.level.HeightPx,
		Players:  []PlayerRecord{},
		Aliens:   []AlienRecord{},
		Pickups:  []PickupRecord{},
		Bullets:  []BulletRecord{},
	}
}
