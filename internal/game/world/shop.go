package world

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/shardmud/shard/internal/game/content"
	"github.com/shardmud/shard/internal/game/entity"
	"github.com/shardmud/shard/internal/protocol"
)

// shopTotalCap bounds a single purchase.
const shopTotalCap = 60000

// openShop starts a shop session: a private listing snapshot for the
// player, plus the dialog showing the stock with prices.
func (w *World) openShop(p *entity.Player, stock *entity.Item) {
	p.InitShopping(stock)
	p.Send(&protocol.OpenDialog{Serial: stock.Serial(), Gump: content.GumpShop})
	p.Send(buildContainerContents(stock.Serial(), stock.Children(), true))
}

// Shop drives an open shop session: adjusting picks, finishing the
// purchase, or walking away.
func (w *World) Shop(p *entity.Player, req *protocol.ShopAction) {
	w.mu.Lock()
	defer w.mu.Unlock()

	list := p.ShopItems(req.ShopSerial)
	if list == nil {
		return
	}

	switch {
	case req.Action == protocol.ShopActionCancel:
		p.FinishShopping(req.ShopSerial)
		p.Send(&protocol.ShopResult{ShopSerial: req.ShopSerial, Action: protocol.ShopActionCancel})

	case req.Action == protocol.ShopActionFinish:
		w.finishPurchase(p, req.ShopSerial, list)

	case req.Action >= protocol.ShopActionEntryBase:
		w.adjustShopEntry(p, req.ShopSerial, list, req.Action)
	}
}

// adjustShopEntry bumps one listing entry up or down, clamped to what the
// stock actually holds.
func (w *World) adjustShopEntry(p *entity.Player, shopSerial int64, list []*entity.Item, action int) {
	idx := (action - protocol.ShopActionEntryBase) / 2
	if idx < 0 || idx >= len(list) {
		return
	}
	entry := list[idx]
	increase := (action-protocol.ShopActionEntryBase)%2 == 1

	if increase {
		limit := 1
		if stock := w.reg.FindItem(entry.Serial()); stock != nil {
			limit = stock.Amount()
		}
		if entry.Amount() < limit {
			entry.SetAmount(entry.Amount() + 1)
		}
	} else if entry.Amount() > 0 {
		entry.SetAmount(entry.Amount() - 1)
	}

	p.Send(&protocol.ContainerContent{
		ContainerSerial: shopSerial,
		Item:            buildContainerItem(entry, true),
	})
}

// finishPurchase totals the picks, checks the cap and the player's gold,
// then delivers the goods into the backpack.
func (w *World) finishPurchase(p *entity.Player, shopSerial int64, list []*entity.Item) {
	total := 0
	for _, entry := range list {
		total += entry.Amount() * entry.Price()
	}
	if total == 0 {
		p.FinishShopping(shopSerial)
		p.Send(&protocol.ShopResult{ShopSerial: shopSerial, Action: protocol.ShopActionCancel})
		return
	}
	if total > shopTotalCap {
		p.SendSysmsg("No merchant handles that much coin in one sale.")
		return
	}
	backpack := p.Backpack()
	if backpack == nil || backpack.AmountByType(content.GfxGold) < total {
		p.SendSysmsg("You cannot afford that.")
		return
	}

	backpack.ConsumeByType(content.GfxGold, total)
	for _, entry := range list {
		if entry.Amount() == 0 {
			continue
		}
		w.deliverPurchase(p, backpack, entry)
	}
	p.FinishShopping(shopSerial)
	p.Send(&protocol.ShopResult{ShopSerial: shopSerial, Action: protocol.ShopActionFinish})
	p.SendSysmsg(fmt.Sprintf("You spend %d gold.", total))
}

func (w *World) deliverPurchase(p *entity.Player, backpack *entity.Item, entry *entity.Item) {
	behavior := ""
	if stock := w.reg.FindItem(entry.Serial()); stock != nil {
		behavior = stock.Behavior()
	}
	if entry.IsStackable() {
		if _, err := w.createItemIn(backpack, entry.Graphic(), entry.Amount(), behavior); err != nil {
			w.logger.Error("delivering purchase", zap.Error(err))
		}
		return
	}
	for i := 0; i < entry.Amount(); i++ {
		if _, err := w.createItemIn(backpack, entry.Graphic(), 1, behavior); err != nil {
			w.logger.Error("delivering purchase", zap.Error(err))
		}
	}
}
