package protocol

import "github.com/shardmud/shard/internal/game/geometry"

// LoginRequest authenticates an existing character (serial != 0) or
// creates a new one (serial == 0).
type LoginRequest struct {
	Serial       int64  `json:"serial"`
	Seed         int64  `json:"seed"`
	Password     string `json:"password"`
	Name         string `json:"name,omitempty"`
	Graphic      int    `json:"graphic,omitempty"`
	Strength     int64  `json:"strength,omitempty"`
	Dexterity    int64  `json:"dexterity,omitempty"`
	Intelligence int64  `json:"intelligence,omitempty"`
	SkinHue      int    `json:"skin_hue,omitempty"`
	HairStyle    int    `json:"hair_style,omitempty"`
	HairHue      int    `json:"hair_hue,omitempty"`
	Email        string `json:"email,omitempty"`
	RealName     string `json:"real_name,omitempty"`
}

func (LoginRequest) Kind() string { return "login" }

// MoveRequest asks to turn to or step in a direction. The sequence number
// is echoed in the accept/deny reply for client-side prediction.
type MoveRequest struct {
	Direction geometry.Direction `json:"direction"`
	Sequence  int                `json:"sequence"`
}

func (MoveRequest) Kind() string { return "move" }

// SingleClick inspects an object.
type SingleClick struct {
	Serial int64 `json:"serial"`
}

func (SingleClick) Kind() string { return "single_click" }

// DoubleClick uses or opens an object.
type DoubleClick struct {
	Serial int64 `json:"serial"`
}

func (DoubleClick) Kind() string { return "double_click" }

// Attack engages a mobile in combat.
type Attack struct {
	Serial int64 `json:"serial"`
}

func (Attack) Kind() string { return "attack" }

// Speech says text aloud. A leading '#' marks a text command.
type Speech struct {
	Text  string `json:"text"`
	Color int    `json:"color"`
}

func (Speech) Kind() string { return "speech" }

// DragRequest picks up an item, or part of a stack.
type DragRequest struct {
	Serial int64 `json:"serial"`
	Amount int   `json:"amount"`
}

func (DragRequest) Kind() string { return "drag" }

// DropRequest releases a dragged item onto the ground (target 0) or onto
// another item.
type DropRequest struct {
	Serial   int64            `json:"serial"`
	Target   int64            `json:"target,omitempty"`
	Location geometry.Point3D `json:"location"`
}

func (DropRequest) Kind() string { return "drop" }

// EquipRequest drops a dragged item onto a mobile's paperdoll.
type EquipRequest struct {
	ItemSerial   int64 `json:"item_serial"`
	MobileSerial int64 `json:"mobile_serial"`
	Layer        int   `json:"layer"`
}

func (EquipRequest) Kind() string { return "equip" }

// Request modes for StatusRequest.
const (
	RequestStats  = "stats"
	RequestSkills = "skills"
)

// StatusRequest asks for a mobile's stats or skills.
type StatusRequest struct {
	Serial int64  `json:"serial"`
	Mode   string `json:"mode"`
}

func (StatusRequest) Kind() string { return "status" }

// Action modes.
const (
	ActionOpenSpellbook = "open_spellbook"
	ActionCastSpell     = "cast_spell"
	ActionUseScroll     = "use_scroll"
)

// Action carries spellbook and spellcasting requests. Text holds the
// incantation or scroll arguments.
type Action struct {
	Mode string `json:"mode"`
	Text string `json:"text,omitempty"`
}

func (Action) Kind() string { return "action" }

// Shop actions.
const (
	ShopActionCancel = 0
	ShopActionFinish = 1
	// Actions >= ShopActionEntryBase select a listing entry: even
	// decreases, odd increases, index encoded per the shop dialog.
	ShopActionEntryBase = 100
)

// ShopAction drives an open shop session.
type ShopAction struct {
	ShopSerial int64 `json:"shop_serial"`
	Action     int   `json:"action"`
}

func (ShopAction) Kind() string { return "shop" }
