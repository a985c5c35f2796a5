package storage

import (
	"fmt"
	"strconv"
	"time"

	"github.com/user/orderdesk/internal/model"
)

// Demo dataset dimensions
var (
	DemoDepartments = []string{"Grøubøgata 1", "Avdeling 16", "Ekebergveien 65", "Ekeberg Logistikk", "Distribution Hub"}
	DemoCreators    = []string{"Camilla", "Sindre", "Jonas", "System", "Helga"}
	DemoTags        = []string{"Road bike", "E-bike", "Accessories", "Components", "Subscription", "Logistics"}
)

// DemoSize is the number of orders in the demo dataset.
const DemoSize = 64

// demoSamples occupy positions 10 through 19 of the demo dataset.
var demoSamples = []model.Order{
	{
		ID: "11", Ref: "QH29", Created: "15 Jul 2020 22:00",
		Customer: "Peter Kristiansen", Products: "Orbea Orca M30 🔁",
		Start: "08 Aug 2020 14:00", End: "12 Aug 2020 14:00",
		Distribution: "Grøubøgata 1, Oslo", Status: model.StatusCancelled,
		Delivery: model.DeliveryCancelled, Price: "800.00 NOK",
		Notes:      "tooltip: Renewing subscription",
		Department: "Grøubøgata 1", CreatedBy: "Camilla", ProductTag: "Subscription",
	},
	{
		ID: "12", Ref: "VB58", Created: "15 Jul 2020 21:00",
		Customer: "Ola Nordmann", Products: "Pinarello Gan Disk",
		Start: "07 Aug 2020 14:00", End: "16 Aug 2020 14:00",
		Distribution: "Avdeling 16, Oslo", Status: model.StatusBooked,
		Delivery: model.DeliveryReady, Price: "1,600.00 NOK",
		Department: "Avdeling 16", CreatedBy: "Sindre", ProductTag: "Road bike",
	},
	{
		ID: "13", Ref: "LH44", Created: "14 Jul 2020 20:00",
		Customer: "Viggo Aukland", Products: "S-Works Tarmac SL7",
		Start: "05 Aug 2020 14:00", End: "08 Aug 2020 14:00",
		Distribution: "Grøubøgata 1", Status: model.StatusBooked,
		Delivery: model.DeliveryDelayed, Price: "645.00 NOK",
		Department: "Grøubøgata 1", CreatedBy: "Camilla", ProductTag: "Road bike",
		Delayed: true,
	},
	{
		ID: "14", Ref: "TS49", Created: "13 Jul 2020 20:00",
		Customer: "Merethe Meinig", Products: "Elite Direto XR, Schwalbe Ins…",
		Start: "06 Aug 2020 14:00", End: "06 Aug 2020 20:00",
		Distribution: "Avdeling 16, Svolvær", Status: model.StatusInCart,
		Delivery: model.DeliveryUnset, Price: "199.99 NOK",
		Department: "Avdeling 16", CreatedBy: "Jonas", ProductTag: "Accessories",
	},
	{
		ID: "15", Ref: "QE50", Created: "13 Jul 2020 20:00",
		Customer: "Edvin Joanssen", Products: "FELT Sport E-50 ⚡",
		Start: "05 Aug 2020 14:00", End: model.Unset,
		Distribution: "Grøubøgata 1", Status: model.StatusClosed,
		Delivery: model.DeliveryPickedUp, Price: "399.00 NOK",
		Department: "Grøubøgata 1", CreatedBy: "Camilla", ProductTag: "E-bike",
	},
	{
		ID: "16", Ref: "ZM94", Created: "03 Aug 2020 10:21",
		Customer: "Admin", Products: "BH Atom 29",
		Start: "04 Aug 2020 08:45", End: model.Unset,
		Distribution: "Grøubøgata 1", Status: model.StatusDropped,
		Delivery: model.DeliveryCancelled, Price: "485.00 NOK",
		Department: "Grøubøgata 1", CreatedBy: "System", ProductTag: "Mountain",
	},
	{
		ID: "17", Ref: "MV33", Created: "28 Jul 2020 18:02",
		Customer: "Thorbjørn Bernsen", Products: "HJC Atara, Abus Hyban+",
		Start: "01 Aug 2020 12:30", End: "03 Aug 2020 09:45",
		Distribution: "Avdeling 16, Oslo", Status: model.StatusBooked,
		Delivery: model.DeliveryDelayed, Price: "845.00 NOK",
		Department: "Avdeling 16", CreatedBy: "Sindre", ProductTag: "Accessories",
		Delayed: true,
	},
	{
		ID: "18", Ref: "AA23", Created: "28 Jul 2020 18:00",
		Customer: "Admin", Products: "Shimano 105 ST-R7000",
		Start: "29 Jul 2020 12:00", End: model.Unset,
		Distribution: "Ekebergveien 65", Status: model.StatusTest,
		Delivery: model.DeliveryReturned, Price: "399.00 NOK",
		Department: "Ekebergveien 65", CreatedBy: "System", ProductTag: "Components",
	},
	{
		ID: "19", Ref: "GR88", Created: "27 Jul 2020 19:40",
		Customer: "Per Thue", Products: "EYEN Kort 2-Pack",
		Start: "01 Aug 2020 12:30", End: "03 Aug 2020 09:45",
		Distribution: "Grøubøgata 1", Status: model.StatusRequest,
		Delivery: model.DeliveryToTransport, Price: "512.00 NOK",
		Department: "Grøubøgata 1", CreatedBy: "Camilla", ProductTag: "Accessories",
	},
	{
		ID: "20", Ref: "NL06", Created: "27 Jul 2020 19:40",
		Customer: "Hallgrim Haukland", Products: "S-Works Shiv TT Disc",
		Start: "26 Jul 2020 12:00", End: "24 Aug 2020 12:00",
		Distribution: "Grøubøgata 1", Status: model.StatusBooked,
		Delivery: model.DeliveryOnChecking, Price: "1,249.00 NOK",
		Department: "Grøubøgata 1", CreatedBy: "Camilla", ProductTag: "Triathlon",
	},
}

// DemoOrders builds the 64-order demo dataset: ten hand-written samples at
// positions 10-19 and generated orders around them.
func DemoOrders() []model.Order {
	base := time.Date(2020, time.July, 1, 8, 0, 0, 0, time.UTC)
	orders := make([]model.Order, 0, DemoSize)

	for i := 0; i < DemoSize; i++ {
		if i >= 10 && i < 20 {
			orders = append(orders, demoSamples[i-10])
			continue
		}

		created := base.AddDate(0, 0, i)
		end := model.Unset
		if i%3 != 0 {
			end = model.FormatTimestamp(created.AddDate(0, 0, 15))
		}
		department := DemoDepartments[i%len(DemoDepartments)]
		delivery := model.DeliveryStatuses[i%len(model.DeliveryStatuses)]

		orders = append(orders, model.Order{
			ID:           strconv.Itoa(i + 1),
			Ref:          fmt.Sprintf("GEN%02d", i+1),
			Created:      model.FormatTimestamp(created),
			Customer:     fmt.Sprintf("Customer %d", i+1),
			Products:     fmt.Sprintf("Product bundle %d", i+1),
			Start:        model.FormatTimestamp(created.AddDate(0, 0, 10)),
			End:          end,
			Distribution: department + ", Oslo",
			Status:       model.StatusPriority[i%len(model.StatusPriority)],
			Delivery:     delivery,
			Price:        fmt.Sprintf("%.2f NOK", float64(500+i*5)),
			Department:   department,
			CreatedBy:    DemoCreators[i%len(DemoCreators)],
			ProductTag:   DemoTags[i%len(DemoTags)],
			Delayed:      delivery == model.DeliveryDelayed,
		})
	}

	return orders
}
