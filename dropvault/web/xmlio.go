package web

import (
	"encoding/xml"
	"fmt"

	"github.com/gofiber/fiber/v2"

	"github.com/dropvault/dropvault/dropvault/ledger"
)

// The XML schemas exist for operators who maintain loot tables and account
// dumps by hand. Attributes carry scalar fields; nested elements carry the
// loot table. Import replaces the whole collection after validation.

type xmlCatalog struct {
	XMLName xml.Name  `xml:"cases"`
	Cases   []xmlCase `xml:"case"`
}

type xmlCase struct {
	ID       string    `xml:"id,attr"`
	Name     string    `xml:"name,attr"`
	Price    int64     `xml:"price,attr"`
	XPReward int       `xml:"xp_reward,attr"`
	Enabled  bool      `xml:"enabled,attr"`
	Items    []xmlItem `xml:"item"`
}

type xmlItem struct {
	ID         string         `xml:"id,attr"`
	Name       string         `xml:"name,attr"`
	Rarity     string         `xml:"rarity,attr"`
	Value      int64          `xml:"value,attr"`
	Weight     float64        `xml:"weight,attr"`
	ImageURL   string         `xml:"image,attr,omitempty"`
	Variations []xmlVariation `xml:"variation"`
}

type xmlVariation struct {
	Name     string  `xml:"name,attr"`
	Weight   float64 `xml:"weight,attr"`
	Price    int64   `xml:"price,attr"`
	ImageURL string  `xml:"image,attr,omitempty"`
}

type xmlAccounts struct {
	XMLName  xml.Name     `xml:"accounts"`
	Accounts []xmlAccount `xml:"account"`
}

type xmlAccount struct {
	ID               int64  `xml:"id,attr"`
	Name             string `xml:"name,attr"`
	Balance          int64  `xml:"balance,attr"`
	XP               int    `xml:"xp,attr"`
	Level            int    `xml:"level,attr"`
	Banned           bool   `xml:"banned,attr"`
	LifetimeEarnings int64  `xml:"lifetime_earnings,attr"`
}

func catalogToXML(cases []ledger.CaseDefinition) xmlCatalog {
	out := xmlCatalog{Cases: make([]xmlCase, 0, len(cases))}
	for _, c := range cases {
		xc := xmlCase{
			ID:       c.ID,
			Name:     c.Name,
			Price:    c.Price,
			XPReward: c.XPReward,
			Enabled:  c.Enabled,
		}
		for _, it := range c.Items {
			xi := xmlItem{
				ID:       it.ID,
				Name:     it.Name,
				Rarity:   it.Rarity,
				Value:    it.Value,
				Weight:   it.DropWeight,
				ImageURL: it.ImageURL,
			}
			for _, v := range it.Variations {
				xi.Variations = append(xi.Variations, xmlVariation{
					Name:     v.Name,
					Weight:   v.DropWeight,
					Price:    v.Price,
					ImageURL: v.ImageURL,
				})
			}
			xc.Items = append(xc.Items, xi)
		}
		out.Cases = append(out.Cases, xc)
	}
	return out
}

func catalogFromXML(doc xmlCatalog) []ledger.CaseDefinition {
	out := make([]ledger.CaseDefinition, 0, len(doc.Cases))
	for _, xc := range doc.Cases {
		c := ledger.CaseDefinition{
			ID:       xc.ID,
			Name:     xc.Name,
			Price:    xc.Price,
			XPReward: xc.XPReward,
			Enabled:  xc.Enabled,
		}
		for _, xi := range xc.Items {
			it := ledger.ItemDefinition{
				ID:         xi.ID,
				Name:       xi.Name,
				Rarity:     xi.Rarity,
				Value:      xi.Value,
				DropWeight: xi.Weight,
				ImageURL:   xi.ImageURL,
			}
			for _, xv := range xi.Variations {
				it.Variations = append(it.Variations, ledger.Variation{
					Name:       xv.Name,
					DropWeight: xv.Weight,
					Price:      xv.Price,
					ImageURL:   xv.ImageURL,
				})
			}
			c.Items = append(c.Items, it)
		}
		out = append(out, c)
	}
	return out
}

func accountsToXML(accounts []ledger.Account) xmlAccounts {
	out := xmlAccounts{Accounts: make([]xmlAccount, 0, len(accounts))}
	for _, a := range accounts {
		out.Accounts = append(out.Accounts, xmlAccount{
			ID:               a.ID,
			Name:             a.DisplayName,
			Balance:          a.Balance,
			XP:               a.XP,
			Level:            a.Level,
			Banned:           a.Banned,
			LifetimeEarnings: a.LifetimeEarnings,
		})
	}
	return out
}

func accountsFromXML(doc xmlAccounts) []ledger.Account {
	out := make([]ledger.Account, 0, len(doc.Accounts))
	for _, xa := range doc.Accounts {
		out = append(out, ledger.Account{
			ID:               xa.ID,
			DisplayName:      xa.Name,
			Balance:          xa.Balance,
			XP:               xa.XP,
			Level:            xa.Level,
			Banned:           xa.Banned,
			LifetimeEarnings: xa.LifetimeEarnings,
		})
	}
	return out
}

func sendXML(c *fiber.Ctx, doc any) error {
	data, err := xml.MarshalIndent(doc, "", "  ")
	if err != nil {
		return sendError(c, fiber.StatusInternalServerError, "INTERNAL", err.Error())
	}
	c.Set(fiber.HeaderContentType, fiber.MIMEApplicationXMLCharsetUTF8)
	return c.Send(append([]byte(xml.Header), data...))
}

func (s *Server) handleExportCases(c *fiber.Ctx) error {
	return sendXML(c, catalogToXML(s.ledger.Cases()))
}

func (s *Server) handleImportCasesXML(c *fiber.Ctx) error {
	var doc xmlCatalog
	if err := xml.Unmarshal(c.Body(), &doc); err != nil {
		return sendError(c, fiber.StatusBadRequest, "BAD_REQUEST", fmt.Sprintf("invalid xml: %v", err))
	}
	cases := catalogFromXML(doc)
	if err := s.ledger.ReplaceCatalog(cases); err != nil {
		return sendLedgerError(c, err)
	}
	s.log.Info("catalog imported", "cases", len(cases))
	return sendData(c, fiber.Map{"imported": len(cases)})
}

func (s *Server) handleExportAccounts(c *fiber.Ctx) error {
	return sendXML(c, accountsToXML(s.ledger.ListAccounts()))
}

func (s *Server) handleImportAccounts(c *fiber.Ctx) error {
	var doc xmlAccounts
	if err := xml.Unmarshal(c.Body(), &doc); err != nil {
		return sendError(c, fiber.StatusBadRequest, "BAD_REQUEST", fmt.Sprintf("invalid xml: %v", err))
	}
	accounts := accountsFromXML(doc)
	if err := s.ledger.ReplaceAllAccounts(accounts); err != nil {
		return sendLedgerError(c, err)
	}
	s.log.Info("accounts imported", "accounts", len(accounts))
	return sendData(c, fiber.Map{"imported": len(accounts)})
}
