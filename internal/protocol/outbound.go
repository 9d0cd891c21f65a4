package protocol

import "github.com/shardmud/shard/internal/game/geometry"

// LoginOK confirms a successful login or character creation.
type LoginOK struct {
	Serial   int64            `json:"serial"`
	Seed     int64            `json:"seed"`
	Graphic  int              `json:"graphic"`
	Hue      int              `json:"hue"`
	Name     string           `json:"name"`
	Location geometry.Point3D `json:"location"`
	Facing   string           `json:"facing"`
}

func (LoginOK) Kind() string { return "login_ok" }

// LoginError rejects a login attempt.
type LoginError struct {
	Reason string `json:"reason"`
}

func (LoginError) Kind() string { return "login_error" }

// ObjectInfo announces or updates an object in the world: a mobile or an
// item on the ground.
type ObjectInfo struct {
	Serial   int64            `json:"serial"`
	Graphic  int              `json:"graphic"`
	Hue      int              `json:"hue"`
	Name     string           `json:"name"`
	Amount   int              `json:"amount,omitempty"`
	Location geometry.Point3D `json:"location"`
	Facing   string           `json:"facing,omitempty"`
}

func (ObjectInfo) Kind() string { return "object_info" }

// RemoveObject removes an object from the client's view.
type RemoveObject struct {
	Serial int64 `json:"serial"`
}

func (RemoveObject) Kind() string { return "remove_object" }

// EquipUpdate shows an item worn by a mobile.
type EquipUpdate struct {
	WearerSerial int64 `json:"wearer_serial"`
	ItemSerial   int64 `json:"item_serial"`
	Graphic      int   `json:"graphic"`
	Hue          int   `json:"hue"`
	Layer        int   `json:"layer"`
}

func (EquipUpdate) Kind() string { return "equip_update" }

// ContainerItem is one entry of a container listing.
type ContainerItem struct {
	Serial  int64            `json:"serial"`
	Graphic int              `json:"graphic"`
	Hue     int              `json:"hue"`
	Amount  int              `json:"amount"`
	Price   int              `json:"price,omitempty"`
	Name    string           `json:"name,omitempty"`
	Offset  geometry.Point2D `json:"offset"`
}

// ContainerContent places a single item inside an open container view.
type ContainerContent struct {
	ContainerSerial int64         `json:"container_serial"`
	Item            ContainerItem `json:"item"`
}

func (ContainerContent) Kind() string { return "container_content" }

// ContainerContents transmits a full container listing, also used for
// shop inventories.
type ContainerContents struct {
	ContainerSerial int64           `json:"container_serial"`
	Items           []ContainerItem `json:"items"`
}

func (ContainerContents) Kind() string { return "container_contents" }

// Location forces the client to its mobile's true location.
type Location struct {
	Serial   int64            `json:"serial"`
	Location geometry.Point3D `json:"location"`
	Facing   string           `json:"facing"`
}

func (Location) Kind() string { return "location" }

// MoveAck accepts a movement request, echoing its sequence number.
type MoveAck struct {
	Sequence int `json:"sequence"`
}

func (MoveAck) Kind() string { return "move_ack" }

// MoveDeny rejects a movement request, echoing its sequence number along
// with the player's true location so the client can snap back.
type MoveDeny struct {
	Sequence int              `json:"sequence"`
	Location geometry.Point3D `json:"location"`
	Facing   string           `json:"facing"`
}

func (MoveDeny) Kind() string { return "move_deny" }

// Stats carries a mobile's stat window values. For foreign mobiles only
// the hit-point ratio is disclosed.
type Stats struct {
	Serial     int64  `json:"serial"`
	Name       string `json:"name"`
	Hits       int64  `json:"hits"`
	MaxHits    int64  `json:"max_hits"`
	Mana       int64  `json:"mana,omitempty"`
	MaxMana    int64  `json:"max_mana,omitempty"`
	Fatigue    int64  `json:"fatigue,omitempty"`
	MaxFatigue int64  `json:"max_fatigue,omitempty"`
	Strength   int64  `json:"strength,omitempty"`
	Dexterity  int64  `json:"dexterity,omitempty"`
	Intellect  int64  `json:"intelligence,omitempty"`
	Level      int64  `json:"level,omitempty"`
	Experience int64  `json:"experience,omitempty"`
	NextLevel  int64  `json:"next_level,omitempty"`
}

func (Stats) Kind() string { return "stats" }

// Skills carries a player's skill values.
type Skills struct {
	Values     map[string]int64 `json:"values"`
	OpenWindow bool             `json:"open_window"`
}

func (Skills) Kind() string { return "skills" }

// Text is spoken or system text.
type Text struct {
	SourceSerial int64  `json:"source_serial,omitempty"`
	Mode         string `json:"mode"`
	Color        int    `json:"color"`
	Text         string `json:"text"`
}

func (Text) Kind() string { return "text" }

// Sound plays a sound effect at the client.
type Sound struct {
	ID int `json:"id"`
}

func (Sound) Kind() string { return "sound" }

// GlobalLight sets the world light level from the day/night cycle.
type GlobalLight struct {
	Level int `json:"level"`
}

func (GlobalLight) Kind() string { return "global_light" }

// ItemLight reports an item's own light emission.
type ItemLight struct {
	Serial int64 `json:"serial"`
	Level  int   `json:"level"`
}

func (ItemLight) Kind() string { return "item_light" }

// OpenDialog opens a dialog window (paperdoll, container, spellbook,
// shop) bound to an object.
type OpenDialog struct {
	Serial int64 `json:"serial"`
	Gump   int   `json:"gump"`
}

func (OpenDialog) Kind() string { return "open_dialog" }

// ShopResult closes or confirms a shop session.
type ShopResult struct {
	ShopSerial int64 `json:"shop_serial"`
	Action     int   `json:"action"`
}

func (ShopResult) Kind() string { return "shop_result" }

// Fight shows a combat swing between two mobiles.
type Fight struct {
	AttackerSerial int64 `json:"attacker_serial"`
	DefenderSerial int64 `json:"defender_serial"`
}

func (Fight) Kind() string { return "fight" }

// Death informs a player of their own death.
type Death struct{}

func (Death) Kind() string { return "death" }

// CancelDrag aborts a client-side drag.
type CancelDrag struct{}

func (CancelDrag) Kind() string { return "cancel_drag" }
