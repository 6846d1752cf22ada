// Interactive console for casedesk. Presents numbered menus per entity
// area on stdin and drives the same services the HTTP API uses. Exit only
// via the menu.
package main

import (
	"bufio"
	"context"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/cembalci/casedesk/internal/auth"
	"github.com/cembalci/casedesk/internal/cases"
	"github.com/cembalci/casedesk/internal/clients"
	"github.com/cembalci/casedesk/internal/documents"
	"github.com/cembalci/casedesk/internal/hearings"
	"github.com/cembalci/casedesk/pkg/database"
	"github.com/cembalci/casedesk/pkg/models"
)

type console struct {
	in       *bufio.Reader
	auth     *auth.Service
	clients  *clients.Service
	cases    *cases.Service
	hearings *hearings.Service
	docs     *documents.Service
	session  *auth.Session
}

func main() {
	_ = godotenv.Load()

	db := database.Init()
	if err := db.AutoMigrate(
		&models.User{}, &models.Client{}, &models.Case{}, &models.CaseClient{},
		&models.Hearing{}, &models.Document{}, &models.CaseHistory{},
	); err != nil {
		log.Fatal("migration failed:", err)
	}

	// The console prints to stdout itself; keep service logging quiet.
	nop := zap.NewNop()

	c := &console{
		in:       bufio.NewReader(os.Stdin),
		auth:     auth.NewService(db, nop),
		clients:  clients.NewService(db, nop),
		cases:    cases.NewService(db, nop),
		hearings: hearings.NewService(db, nop),
		docs:     documents.NewService(db, nop),
	}
	c.run()
}

func (c *console) prompt(label string) string {
	fmt.Print(label)
	line, _ := c.in.ReadString('\n')
	return strings.TrimSpace(line)
}

// optional returns nil for empty input so update calls leave the field
// unchanged.
func (c *console) optional(label string) *string {
	s := c.prompt(label + " (empty = keep): ")
	if s == "" {
		return nil
	}
	return &s
}

func (c *console) run() {
	fmt.Println("=== casedesk console ===")
	for c.session == nil {
		c.loginMenu()
	}
	for {
		fmt.Println()
		fmt.Println("--- Main Menu ---")
		fmt.Println("1) Client management")
		fmt.Println("2) Case management")
		fmt.Println("3) Hearing management")
		fmt.Println("4) Document management")
		fmt.Println("5) Logout and exit")
		switch c.prompt("> ") {
		case "1":
			c.clientMenu()
		case "2":
			c.caseMenu()
		case "3":
			c.hearingMenu()
		case "4":
			c.documentMenu()
		case "5":
			c.auth.Logout(c.session)
			fmt.Println("bye")
			return
		default:
			fmt.Println("unknown option")
		}
	}
}

func (c *console) loginMenu() {
	fmt.Println("1) Login")
	fmt.Println("2) Register")
	switch c.prompt("> ") {
	case "1":
		username := c.prompt("username: ")
		password := c.prompt("password: ")
		sess, err := c.auth.Login(context.Background(), username, password)
		if err != nil {
			fmt.Println("login failed:", err)
			return
		}
		c.session = sess
		fmt.Printf("welcome %s (%s)\n", sess.User.Username, sess.User.Role)
	case "2":
		in := auth.RegisterInput{
			Username: c.prompt("username: "),
			Password: c.prompt("password: "),
			Email:    c.prompt("email: "),
			Name:     c.prompt("name: "),
			Surname:  c.prompt("surname: "),
			Role:     c.prompt("role (admin/lawyer/assistant/judge/client): "),
		}
		if _, err := c.auth.Register(context.Background(), in); err != nil {
			fmt.Println("register failed:", err)
			return
		}
		fmt.Println("registered, now log in")
	}
}

/* =============================== Clients ================================ */

func (c *console) clientMenu() {
	for {
		fmt.Println()
		fmt.Println("--- Clients ---")
		fmt.Println("1) List  2) Search  3) Create  4) Update  5) Delete  6) Cases of client  0) Back")
		switch c.prompt("> ") {
		case "1":
			list, err := c.clients.List(context.Background())
			if err != nil {
				fmt.Println("error:", err)
				continue
			}
			printClients(list)
		case "2":
			list, err := c.clients.SearchByName(context.Background(), c.prompt("name contains: "))
			if err != nil {
				fmt.Println("error:", err)
				continue
			}
			printClients(list)
		case "3":
			in := clients.CreateClientInput{
				Name:    c.prompt("name: "),
				Surname: c.prompt("surname: "),
				Email:   c.prompt("email (optional): "),
				Phone:   c.prompt("phone (digits, optional): "),
				Address: c.prompt("address (optional): "),
			}
			cl, err := c.clients.Create(context.Background(), in)
			if err != nil {
				fmt.Println("error:", err)
				continue
			}
			fmt.Println("created", cl.ID)
		case "4":
			id, err := uuid.Parse(c.prompt("client id: "))
			if err != nil {
				fmt.Println("invalid id")
				continue
			}
			in := clients.UpdateClientInput{
				Name:    c.optional("name"),
				Surname: c.optional("surname"),
				Email:   c.optional("email"),
				Phone:   c.optional("phone"),
				Address: c.optional("address"),
			}
			if _, err := c.clients.Update(context.Background(), id, in); err != nil {
				fmt.Println("error:", err)
				continue
			}
			fmt.Println("updated")
		case "5":
			id, err := uuid.Parse(c.prompt("client id: "))
			if err != nil {
				fmt.Println("invalid id")
				continue
			}
			if err := c.clients.Delete(context.Background(), id); err != nil {
				fmt.Println("error:", err)
				continue
			}
			fmt.Println("deleted")
		case "6":
			id, err := uuid.Parse(c.prompt("client id: "))
			if err != nil {
				fmt.Println("invalid id")
				continue
			}
			list, err := c.cases.CasesForClient(context.Background(), id)
			if err != nil {
				fmt.Println("error:", err)
				continue
			}
			printCases(list)
		case "0":
			return
		}
	}
}

/* ================================ Cases ================================= */

func (c *console) caseMenu() {
	for {
		fmt.Println()
		fmt.Println("--- Cases ---")
		fmt.Println("1) List  2) Create  3) Update  4) Delete  5) Link client  6) Unlink client  7) Clients of case  0) Back")
		switch c.prompt("> ") {
		case "1":
			list, err := c.cases.List(context.Background())
			if err != nil {
				fmt.Println("error:", err)
				continue
			}
			printCases(list)
		case "2":
			in := cases.CreateCaseInput{
				CaseNumber:  c.prompt("case number: "),
				Title:       c.prompt("title: "),
				Type:        c.prompt("type (civil/criminal/family/corporate/other): "),
				Description: c.prompt("description: "),
			}
			cs, err := c.cases.Create(context.Background(), in)
			if err != nil {
				fmt.Println("error:", err)
				continue
			}
			fmt.Println("created", cs.ID)
		case "3":
			id, err := uuid.Parse(c.prompt("case id: "))
			if err != nil {
				fmt.Println("invalid id")
				continue
			}
			in := cases.UpdateCaseInput{
				CaseNumber:  c.optional("case number"),
				Title:       c.optional("title"),
				Type:        c.optional("type"),
				Description: c.optional("description"),
				Status:      c.optional("status"),
			}
			if _, err := c.cases.Update(context.Background(), id, in, c.session.User.ID); err != nil {
				fmt.Println("error:", err)
				continue
			}
			fmt.Println("updated")
		case "4":
			id, err := uuid.Parse(c.prompt("case id: "))
			if err != nil {
				fmt.Println("invalid id")
				continue
			}
			if err := c.cases.Delete(context.Background(), id); err != nil {
				fmt.Println("error:", err)
				continue
			}
			fmt.Println("deleted")
		case "5":
			caseID, clientID, ok := c.promptPair()
			if !ok {
				continue
			}
			if err := c.cases.AddClient(context.Background(), caseID, clientID); err != nil {
				fmt.Println("error:", err)
				continue
			}
			fmt.Println("linked")
		case "6":
			caseID, clientID, ok := c.promptPair()
			if !ok {
				continue
			}
			if err := c.cases.RemoveClient(context.Background(), caseID, clientID); err != nil {
				fmt.Println("error:", err)
				continue
			}
			fmt.Println("unlinked")
		case "7":
			id, err := uuid.Parse(c.prompt("case id: "))
			if err != nil {
				fmt.Println("invalid id")
				continue
			}
			list, err := c.cases.ClientsForCase(context.Background(), id)
			if err != nil {
				fmt.Println("error:", err)
				continue
			}
			printClients(list)
		case "0":
			return
		}
	}
}

// promptPair reads a case id and a client id for the link operations.
func (c *console) promptPair() (caseID, clientID uuid.UUID, ok bool) {
	caseID, err := uuid.Parse(c.prompt("case id: "))
	if err != nil {
		fmt.Println("invalid id")
		return uuid.Nil, uuid.Nil, false
	}
	clientID, err = uuid.Parse(c.prompt("client id: "))
	if err != nil {
		fmt.Println("invalid id")
		return uuid.Nil, uuid.Nil, false
	}
	return caseID, clientID, true
}

/* =============================== Hearings =============================== */

func (c *console) hearingMenu() {
	for {
		fmt.Println()
		fmt.Println("--- Hearings ---")
		fmt.Println("1) List by case  2) Create  3) Update  4) Delete  0) Back")
		switch c.prompt("> ") {
		case "1":
			id, err := uuid.Parse(c.prompt("case id: "))
			if err != nil {
				fmt.Println("invalid id")
				continue
			}
			list, err := c.hearings.ListByCase(context.Background(), id)
			if err != nil {
				fmt.Println("error:", err)
				continue
			}
			for _, h := range list {
				fmt.Printf("%s  %s  %-10s %s  %s\n",
					h.ID, h.HearingDate.Format("2006-01-02 15:04:05"), h.Status, h.Judge, h.Location)
			}
		case "2":
			caseID, err := uuid.Parse(c.prompt("case id: "))
			if err != nil {
				fmt.Println("invalid id")
				continue
			}
			when, err := time.Parse("2006-01-02 15:04", c.prompt("date (YYYY-MM-DD HH:MM): "))
			if err != nil {
				fmt.Println("invalid date")
				continue
			}
			in := hearings.CreateHearingInput{
				CaseID:      caseID,
				HearingDate: when,
				Judge:       c.prompt("judge: "),
				Location:    c.prompt("location: "),
				Notes:       c.prompt("notes: "),
			}
			h, err := c.hearings.Create(context.Background(), in)
			if err != nil {
				fmt.Println("error:", err)
				continue
			}
			fmt.Println("created", h.ID)
		case "3":
			id, err := uuid.Parse(c.prompt("hearing id: "))
			if err != nil {
				fmt.Println("invalid id")
				continue
			}
			in := hearings.UpdateHearingInput{
				Judge:    c.optional("judge"),
				Status:   c.optional("status"),
				Location: c.optional("location"),
				Notes:    c.optional("notes"),
			}
			if s := c.prompt("date (YYYY-MM-DD HH:MM, empty = keep): "); s != "" {
				when, err := time.Parse("2006-01-02 15:04", s)
				if err != nil {
					fmt.Println("invalid date")
					continue
				}
				in.HearingDate = &when
			}
			if _, err := c.hearings.Update(context.Background(), id, in); err != nil {
				fmt.Println("error:", err)
				continue
			}
			fmt.Println("updated")
		case "4":
			id, err := uuid.Parse(c.prompt("hearing id: "))
			if err != nil {
				fmt.Println("invalid id")
				continue
			}
			if err := c.hearings.Delete(context.Background(), id); err != nil {
				fmt.Println("error:", err)
				continue
			}
			fmt.Println("deleted")
		case "0":
			return
		}
	}
}

/* ============================== Documents =============================== */

func (c *console) documentMenu() {
	for {
		fmt.Println()
		fmt.Println("--- Documents ---")
		fmt.Println("1) List by case  2) Create  3) Update  4) Delete  0) Back")
		switch c.prompt("> ") {
		case "1":
			id, err := uuid.Parse(c.prompt("case id: "))
			if err != nil {
				fmt.Println("invalid id")
				continue
			}
			list, err := c.docs.ListByCase(context.Background(), id)
			if err != nil {
				fmt.Println("error:", err)
				continue
			}
			for _, d := range list {
				fmt.Printf("%s  %-12s %-20s %s\n", d.ID, d.Type, d.ContentType, d.Title)
			}
		case "2":
			caseID, err := uuid.Parse(c.prompt("case id: "))
			if err != nil {
				fmt.Println("invalid id")
				continue
			}
			in := documents.CreateDocumentInput{
				CaseID:      caseID,
				Title:       c.prompt("title: "),
				Type:        c.prompt("type (contract/evidence/petition/court_order/other): "),
				ContentType: c.prompt("content type (e.g. text/plain): "),
				Content:     c.prompt("content: "),
			}
			d, err := c.docs.Create(context.Background(), in)
			if err != nil {
				fmt.Println("error:", err)
				continue
			}
			fmt.Println("created", d.ID)
		case "3":
			id, err := uuid.Parse(c.prompt("document id: "))
			if err != nil {
				fmt.Println("invalid id")
				continue
			}
			in := documents.UpdateDocumentInput{
				Title:       c.optional("title"),
				Type:        c.optional("type"),
				ContentType: c.optional("content type"),
				Content:     c.optional("content"),
			}
			if _, err := c.docs.Update(context.Background(), id, in); err != nil {
				fmt.Println("error:", err)
				continue
			}
			fmt.Println("updated")
		case "4":
			id, err := uuid.Parse(c.prompt("document id: "))
			if err != nil {
				fmt.Println("invalid id")
				continue
			}
			if err := c.docs.Delete(context.Background(), id); err != nil {
				fmt.Println("error:", err)
				continue
			}
			fmt.Println("deleted")
		case "0":
			return
		}
	}
}

/* =============================== Printers =============================== */

func printClients(list []models.Client) {
	if len(list) == 0 {
		fmt.Println("(none)")
		return
	}
	for _, cl := range list {
		email := "-"
		if cl.Email != nil {
			email = *cl.Email
		}
		fmt.Printf("%s  %-15s %-15s %-25s %s\n", cl.ID, cl.Name, cl.Surname, email, cl.Phone)
	}
}

func printCases(list []models.Case) {
	if len(list) == 0 {
		fmt.Println("(none)")
		return
	}
	for _, cs := range list {
		fmt.Printf("%s  %-12s %-10s %-10s %s\n", cs.ID, cs.CaseNumber, cs.Type, cs.Status, cs.Title)
	}
}
