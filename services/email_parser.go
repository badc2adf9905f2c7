package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
)

// Patterns that identify bill emails vs promotional/OTP emails.
var billIndicators = []string{
	`order\s*confirmed`,
	`order\s*details`,
	`your\s*order`,
	`bill\s*details`,
	`items?\s*ordered`,
	`total\s*(?:amount|bill)`,
	`delivery\s*address`,
}

var nonBillIndicators = []string{
	`otp\s*(?:is|:)`,
	`verification\s*code`,
	`reset\s*password`,
	`refer\s*(?:a\s*)?friend`,
	`promotional`,
	`coupon\s*code`,
	`exclusive\s*offer`,
	`payment\s*failed`,
	`payment\s*unsuccessful`,
	`transaction\s*failed`,
	`order\s*cancelled`,
	`refund\s*initiated`,
	`refund\s*processed`,
}

var headerOrTotalPatterns = []string{
	`^item`,
	`^qty`,
	`^quantity`,
	`^price`,
	`^total`,
	`^subtotal`,
	`^sub-total`,
	`^delivery`,
	`^discount`,
	`^tax`,
	`^gst`,
	`^charges`,
}

type ParsedDish struct {
	Name     string   `json:"name"`
	Quantity int      `json:"quantity"`
	Price    *float64 `json:"price"`
}

type ParsedOrder struct {
	RestaurantName string
	OrderDate      time.Time
	TotalPrice     *float64
	Dishes         []ParsedDish
}

// EmailParser extracts order data from Swiggy bill emails. The model
// path is preferred when a TextGenerator is configured because the email
// templates change often; the goquery path is the fallback.
type EmailParser struct {
	billPattern    *regexp.Regexp
	nonBillPattern *regexp.Regexp
	subjectRe      *regexp.Regexp
	bodyNameRe     *regexp.Regexp
	itemLineRe     *regexp.Regexp
	quantityRe     *regexp.Regexp
	textGen        TextGenerator
}

func NewEmailParser(textGen TextGenerator) *EmailParser {
	return &EmailParser{
		billPattern:    regexp.MustCompile(`(?i)` + strings.Join(billIndicators, "|")),
		nonBillPattern: regexp.MustCompile(`(?i)` + strings.Join(nonBillIndicators, "|")),
		subjectRe:      regexp.MustCompile(`(?i)order\s*from\s*([^|]+?)(?:\s*is|\s*has|\s*-|$)`),
		bodyNameRe:     regexp.MustCompile(`(?i)(?:ordered?\s*from|restaurant)[:\s]*([A-Za-z0-9\s&'.-]+?)(?:\n|$|,)`),
		itemLineRe:     regexp.MustCompile(`(?:(\d+)\s*x\s*)?([A-Za-z][A-Za-z\s&'.-]+?)(?:\s*x\s*(\d+)|\s*\((\d+)\))?(?:\s*[-–]\s*₹|\s*Rs\.?|\n|$)`),
		quantityRe:     regexp.MustCompile(`(\d+)\s*x|x\s*(\d+)|\((\d+)\)`),
		textGen:        textGen,
	}
}

// IsBillEmail reports whether the email looks like an actual order bill
// rather than an OTP, promo, cancellation or refund.
func (p *EmailParser) IsBillEmail(subject, body string) bool {
	text := subject + " " + body
	if p.nonBillPattern.MatchString(text) {
		return false
	}
	return p.billPattern.MatchString(text)
}

// ParseOrderEmail returns the structured order, or nil when the email is
// not a bill or nothing could be extracted.
func (p *EmailParser) ParseOrderEmail(ctx context.Context, body, subject string) *ParsedOrder {
	if !p.IsBillEmail(subject, body) {
		return nil
	}

	if p.textGen != nil {
		if result := p.parseWithLLM(ctx, body, subject); result != nil && len(result.Dishes) > 0 {
			return result
		}
	}

	return p.parseHTML(body, subject)
}

func (p *EmailParser) parseHTML(body, subject string) *ParsedOrder {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(body))
	if err != nil {
		log.Printf("HTML parsing error: %v", err)
		return nil
	}

	restaurantName := p.extractRestaurantName(doc, subject)
	orderDate := p.extractOrderDate(doc)
	dishes := p.extractDishes(doc)

	if restaurantName == "" || len(dishes) == 0 {
		return nil
	}

	if orderDate.IsZero() {
		orderDate = time.Now()
	}

	return &ParsedOrder{
		RestaurantName: restaurantName,
		OrderDate:      orderDate,
		Dishes:         dishes,
	}
}

func (p *EmailParser) extractRestaurantName(doc *goquery.Document, subject string) string {
	// Subject usually carries it: "Your order from [Restaurant] is confirmed"
	if m := p.subjectRe.FindStringSubmatch(subject); m != nil {
		return strings.TrimSpace(m[1])
	}

	for _, selector := range []string{"[data-restaurant]", ".restaurant-name", "[class*='restaurant']"} {
		if text := strings.TrimSpace(doc.Find(selector).First().Text()); text != "" {
			return text
		}
	}

	if m := p.bodyNameRe.FindStringSubmatch(doc.Text()); m != nil {
		return strings.TrimSpace(m[1])
	}

	return ""
}

var datePatterns = []*regexp.Regexp{
	regexp.MustCompile(`\d{1,2}[\s/-][A-Za-z]{3,9}[\s/-]\d{2,4}`), // 12 Jan 2026, 12-Jan-2026
	regexp.MustCompile(`[A-Za-z]{3,9}\s+\d{1,2},?\s*\d{4}`),       // January 12, 2026
	regexp.MustCompile(`\d{1,2}/\d{1,2}/\d{2,4}`),                 // 12/01/2026
}

var dateLayouts = []string{"2 Jan 2006", "2-Jan-2006", "January 2, 2006", "January 2 2006", "2/1/2006", "1/2/2006"}

var timePatterns = []*regexp.Regexp{
	regexp.MustCompile(`\d{1,2}:\d{2}\s*(?:AM|PM|am|pm)`), // 1:36 PM, 10:30 am
	regexp.MustCompile(`(\d{1,2}:\d{2})\s*(?:hrs|hours)`), // 13:36 hrs
}

var timeLayouts = []string{"3:04 PM", "3:04PM", "15:04"}

func (p *EmailParser) extractOrderDate(doc *goquery.Document) time.Time {
	text := doc.Text()

	var orderDate time.Time
	for _, re := range datePatterns {
		match := re.FindString(text)
		if match == "" {
			continue
		}
		for _, layout := range dateLayouts {
			if d, err := time.Parse(layout, match); err == nil {
				orderDate = d
				break
			}
		}
		if !orderDate.IsZero() {
			break
		}
	}

	for _, re := range timePatterns {
		m := re.FindStringSubmatch(text)
		if m == nil {
			continue
		}
		match := m[0]
		if len(m) > 1 && m[1] != "" {
			match = m[1]
		}
		match = strings.ToUpper(strings.TrimSpace(match))
		for _, layout := range timeLayouts {
			if t, err := time.Parse(layout, match); err == nil {
				if !orderDate.IsZero() {
					orderDate = time.Date(orderDate.Year(), orderDate.Month(), orderDate.Day(),
						t.Hour(), t.Minute(), 0, 0, orderDate.Location())
				}
				break
			}
		}
		break
	}

	return orderDate
}

func (p *EmailParser) extractDishes(doc *goquery.Document) []ParsedDish {
	var dishes []ParsedDish

	// Swiggy bills lay items out in table rows.
	doc.Find("table tr").Each(func(_ int, row *goquery.Selection) {
		cells := row.Find("td, th")
		if cells.Length() < 2 {
			return
		}
		text := strings.TrimSpace(cells.First().Text())
		if len(text) <= 2 || isHeaderOrTotal(text) {
			return
		}
		dishes = append(dishes, ParsedDish{
			Name:     cleanDishName(text),
			Quantity: p.extractQuantity(row.Text()),
		})
	})

	if len(dishes) > 0 {
		return dishes
	}

	// No table: fall back to "1 x Dish Name" style text lines.
	for _, m := range p.itemLineRe.FindAllStringSubmatch(doc.Text(), -1) {
		name := m[2]
		if len(name) <= 2 || isHeaderOrTotal(name) {
			continue
		}
		qty := 1
		for _, g := range []string{m[1], m[3], m[4]} {
			if g != "" {
				qty, _ = strconv.Atoi(g)
				break
			}
		}
		dishes = append(dishes, ParsedDish{Name: cleanDishName(name), Quantity: qty})
	}

	return dishes
}

var headerOrTotalRe = regexp.MustCompile(`(?i)` + strings.Join(headerOrTotalPatterns, "|"))

func isHeaderOrTotal(text string) bool {
	return headerOrTotalRe.MatchString(strings.ToLower(strings.TrimSpace(text)))
}

var (
	rupeePriceRe  = regexp.MustCompile(`₹[\d,]+`)
	rsPriceRe     = regexp.MustCompile(`Rs\.?\s*[\d,]+`)
	qtyMarkerRe   = regexp.MustCompile(`\s*x\s*\d+`)
	qtyBracketRe  = regexp.MustCompile(`\(\d+\)`)
	whitespaceSeq = regexp.MustCompile(`\s+`)
)

func cleanDishName(name string) string {
	name = rupeePriceRe.ReplaceAllString(name, "")
	name = rsPriceRe.ReplaceAllString(name, "")
	name = qtyMarkerRe.ReplaceAllString(name, "")
	name = qtyBracketRe.ReplaceAllString(name, "")
	return strings.TrimSpace(whitespaceSeq.ReplaceAllString(name, " "))
}

func (p *EmailParser) extractQuantity(text string) int {
	m := p.quantityRe.FindStringSubmatch(strings.ToLower(text))
	if m == nil {
		return 1
	}
	for _, g := range m[1:] {
		if g != "" {
			q, _ := strconv.Atoi(g)
			return q
		}
	}
	return 1
}

type llmOrderPayload struct {
	RestaurantName string       `json:"restaurant_name"`
	OrderDate      string       `json:"order_date"`
	OrderTime      string       `json:"order_time"`
	TotalPrice     *float64     `json:"total_price"`
	Dishes         []ParsedDish `json:"dishes"`
}

func (p *EmailParser) parseWithLLM(ctx context.Context, body, subject string) *ParsedOrder {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(body))
	if err != nil {
		return nil
	}

	textContent := strings.TrimSpace(doc.Text())
	if len(textContent) > 4000 {
		textContent = textContent[:4000]
	}

	prompt := fmt.Sprintf(`Parse this Swiggy food order email and extract the order details.

Subject: %s

Email content:
%s

Extract and return as JSON with this exact structure:
{
    "restaurant_name": "Restaurant Name",
    "order_date": "YYYY-MM-DD",
    "order_time": "HH:MM (24-hour format, extract from email if available, null if not found)",
    "total_price": 450.00,
    "dishes": [
        {"name": "Dish Name", "quantity": 1, "price": 200.00},
        {"name": "Another Dish", "quantity": 2, "price": 125.00}
    ]
}

Rules:
- Only include actual food items, not delivery charges, taxes, or totals
- If quantity is not specified, assume 1
- For order_date, use today's date if not found
- Extract price for each dish item in INR (numbers only, no currency symbol)
- total_price should be the final bill amount (including taxes, delivery, etc.)
- If price is not visible for a dish, set it to null
- Return ONLY valid JSON, no other text`, subject, textContent)

	raw, err := p.textGen.GenerateContent(ctx, prompt)
	if err != nil {
		log.Printf("LLM parsing error: %v", err)
		return nil
	}

	var payload llmOrderPayload
	if err := json.Unmarshal([]byte(stripCodeFences(raw)), &payload); err != nil {
		log.Printf("LLM parsing error: %v", err)
		return nil
	}

	orderDate := time.Now()
	if payload.OrderDate != "" {
		if d, err := time.Parse("2006-01-02", payload.OrderDate); err == nil {
			orderDate = d
		}
	}
	if payload.OrderTime != "" {
		if t, err := time.Parse("15:04", payload.OrderTime); err == nil {
			orderDate = time.Date(orderDate.Year(), orderDate.Month(), orderDate.Day(),
				t.Hour(), t.Minute(), 0, 0, orderDate.Location())
		}
	}

	name := payload.RestaurantName
	if name == "" {
		name = "Unknown Restaurant"
	}

	for i := range payload.Dishes {
		if payload.Dishes[i].Quantity < 1 {
			payload.Dishes[i].Quantity = 1
		}
	}

	return &ParsedOrder{
		RestaurantName: name,
		OrderDate:      orderDate,
		TotalPrice:     payload.TotalPrice,
		Dishes:         payload.Dishes,
	}
}
