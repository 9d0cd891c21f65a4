package entity

import (
	"golang.org/x/crypto/bcrypt"

	"github.com/shardmud/shard/internal/game/content"
	"github.com/shardmud/shard/internal/game/geometry"
	"github.com/shardmud/shard/internal/game/magic"
	"github.com/shardmud/shard/internal/protocol"
)

// accessItemRange is how far a player may reach for items on the ground.
const accessItemRange = 2

// Player is a mobile controlled by a connected client. A player without a
// connection is offline: it persists, but is invisible and inert.
type Player struct {
	Mobile

	conn protocol.Conn

	seed         int64
	passwordHash []byte
	commandLevel int
	email        string
	realName     string

	walking    bool
	dragAmount int

	shopLists map[int64][]*Item

	targetObject   func(Entity)
	targetLocation func(geometry.Point3D)
}

// NewPlayer creates an unregistered, offline player.
//
// Precondition: defs must be non-nil.
func NewPlayer(serial int64, graphic int, defs *content.Table) *Player {
	p := &Player{shopLists: make(map[int64][]*Item)}
	p.defs = defs
	p.initMobile(p, serial, graphic)
	return p
}

// Conn returns the live connection, or nil when offline.
func (p *Player) Conn() protocol.Conn { return p.conn }

// SetConn attaches or detaches the client connection. The visibility
// change is announced by the login and logout paths once the client has
// been sequenced in, so it never precedes the login confirmation.
func (p *Player) SetConn(c protocol.Conn) {
	p.conn = c
}

// AnnouncePresence publishes the player's current visibility, showing or
// removing them from nearby views.
func (p *Player) AnnouncePresence() {
	p.publish(func(obs Observer) { obs.ObjectUpdated(p) })
}

// Online reports whether a client is attached.
func (p *Player) Online() bool { return p.conn != nil }

// Visible additionally requires the player to be online: offline players
// are persisted but never perceived.
func (p *Player) Visible() bool {
	return p.Object.Visible() && p.Online()
}

// Send forwards a message to the player's client, a no-op when offline.
func (p *Player) Send(msg protocol.Message) {
	if p.conn != nil {
		_ = p.conn.Send(msg)
	}
}

// SendSysmsg delivers a system-channel text line.
func (p *Player) SendSysmsg(text string) {
	p.Send(&protocol.Text{
		Mode:  protocol.TextModeSysmsg,
		Color: protocol.ColorSystem,
		Text:  text,
	})
}

// Seed is the client session token presented at login.
func (p *Player) Seed() int64        { return p.seed }
func (p *Player) SetSeed(seed int64) { p.seed = seed }

// SetPassword stores a bcrypt hash of the cleartext password.
func (p *Player) SetPassword(password string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	p.passwordHash = hash
	return nil
}

// CheckPassword reports whether password matches the stored hash.
func (p *Player) CheckPassword(password string) bool {
	return bcrypt.CompareHashAndPassword(p.passwordHash, []byte(password)) == nil
}

// PasswordHash exposes the stored hash for persistence.
func (p *Player) PasswordHash() []byte { return p.passwordHash }

// RestorePasswordHash reinstates a hash from a save.
func (p *Player) RestorePasswordHash(hash []byte) { p.passwordHash = hash }

// CommandLevel is the player's administrative privilege level.
func (p *Player) CommandLevel() int         { return p.commandLevel }
func (p *Player) SetCommandLevel(level int) { p.commandLevel = level }

func (p *Player) Email() string            { return p.email }
func (p *Player) SetEmail(email string)    { p.email = email }
func (p *Player) RealName() string         { return p.realName }
func (p *Player) SetRealName(name string)  { p.realName = name }

// Walking reports whether the last accepted move was a walk rather than a
// run; movement speed validation keys off it.
func (p *Player) Walking() bool           { return p.walking }
func (p *Player) SetWalking(walking bool) { p.walking = walking }

// DragAmount is the stack portion requested by the current drag, 0 for
// the whole stack.
func (p *Player) DragAmount() int          { return p.dragAmount }
func (p *Player) SetDragAmount(amount int) { p.dragAmount = amount }

// DraggedItem returns the item this player is currently dragging, if any,
// by searching from root. The world resolves drags through the registry;
// this accessor exists for the cancel path.
func (p *Player) DraggedItem(candidates []*Item) *Item {
	for _, it := range candidates {
		if it.DraggingPlayer() == p {
			return it
		}
	}
	return nil
}

// TryAccess checks whether the player may manipulate the item. On denial
// it returns false and the refusal line to show the player.
func (p *Player) TryAccess(it *Item) (bool, string) {
	if p.IsDead() {
		return false, "I am dead and cannot do that."
	}
	root := it.Root()
	if rootItem, ok := root.(*Item); ok && rootItem.OnGround() {
		if !p.InRange(rootItem.Location().XY(), accessItemRange) {
			return false, "You are too far away to do that."
		}
		return true, ""
	}
	if root != nil && root != Entity(p) {
		if _, ok := root.(mobileEntity); ok {
			return false, "This doesn't belong to you."
		}
	}
	return true, ""
}

// SetObjectTarget arms a one-shot handler for the next targeted object.
func (p *Player) SetObjectTarget(fn func(Entity)) { p.targetObject = fn }

// SetLocationTarget arms a one-shot handler for the next targeted tile.
func (p *Player) SetLocationTarget(fn func(geometry.Point3D)) { p.targetLocation = fn }

// OnTargetObject fires the armed object-target handler once. Reports
// whether a handler consumed the target.
func (p *Player) OnTargetObject(e Entity) bool {
	fn := p.targetObject
	p.targetObject = nil
	if fn == nil {
		return false
	}
	fn(e)
	return true
}

// OnTargetLocation fires the armed location-target handler once.
func (p *Player) OnTargetLocation(loc geometry.Point3D) bool {
	fn := p.targetLocation
	p.targetLocation = nil
	if fn == nil {
		return false
	}
	fn(loc)
	return true
}

// InitShopping opens a shop session against the given stock container.
// The listing is a private snapshot of the stock: same serials so the
// client can reference entries, amounts reset to zero to count the
// player's picks.
func (p *Player) InitShopping(shop *Item) []*Item {
	list := make([]*Item, 0, len(shop.Children()))
	for _, c := range shop.Children() {
		entry := c.CreateCopy(c.Serial())
		entry.amount = 0
		list = append(list, entry)
	}
	p.shopLists[shop.Serial()] = list
	return list
}

// ShopItems returns the open listing for the shop container, or nil.
func (p *Player) ShopItems(shopSerial int64) []*Item { return p.shopLists[shopSerial] }

// IsShopping reports whether a session against the shop container is open.
func (p *Player) IsShopping(shopSerial int64) bool {
	_, ok := p.shopLists[shopSerial]
	return ok
}

// FinishShopping closes the session for the shop container.
func (p *Player) FinishShopping(shopSerial int64) {
	delete(p.shopLists, shopSerial)
}

// Spellbook returns the spellbook in the player's backpack, or nil.
func (p *Player) Spellbook() *Item {
	bp := p.Backpack()
	if bp == nil {
		return nil
	}
	return bp.FindChildByType(content.GfxSpellbook)
}

// HasSpell reports whether the player's spellbook holds the scroll for sp.
func (p *Player) HasSpell(sp magic.Spell) bool {
	book := p.Spellbook()
	if book == nil {
		return false
	}
	return book.FindChildByType(sp.ScrollGraphic()) != nil
}

// Delete drops the connection before removing the player.
func (p *Player) Delete() {
	if p.conn != nil {
		p.conn.Disconnect()
		p.conn = nil
	}
	p.Mobile.Delete()
}
