package view

import (
	"fmt"

	"github.com/user/orderdesk/internal/model"
)

func ptr[T any](v T) *T { return &v }

func order(ref string, status model.OrderStatus, price string) model.Order {
	return model.Order{
		ID:           ref,
		Ref:          ref,
		Created:      "15 Jul 2020 22:00",
		Customer:     "Customer " + ref,
		Products:     "Bike",
		Start:        "16 Jul 2020 10:00",
		End:          "17 Jul 2020 10:00",
		Distribution: "Grøubøgata 1, Oslo",
		Status:       status,
		Delivery:     model.DeliveryReady,
		Price:        price,
		Department:   "Grøubøgata 1",
		CreatedBy:    "Camilla",
	}
}

func refs(orders []model.Order) []string {
	out := make([]string, len(orders))
	for i := range orders {
		out[i] = orders[i].Ref
	}
	return out
}

// fixture returns a varied set of orders covering every status, a few
// departments, unset delivery, an unknown end time and a bad price.
func fixture() []model.Order {
	return []model.Order{
		{
			ID: "11", Ref: "QH29", Created: "15 Jul 2020 22:00",
			Customer: "Ola Nordmann", Products: "City bike",
			Start: "16 Jul 2020 09:00", End: "20 Jul 2020 09:00",
			Distribution: "Grøubøgata 1, Oslo", Status: model.StatusCancelled,
			Delivery: model.DeliveryCancelled, Price: "800.00 NOK",
			Department: "Grøubøgata 1", CreatedBy: "Camilla", ProductTag: "Road bike",
		},
		{
			ID: "12", Ref: "VB58", Created: "02 Aug 2020 10:15",
			Customer: "Kari Hansen", Products: "E-bike Pro",
			Start: "03 Aug 2020 10:00", End: "10 Aug 2020 10:00",
			Distribution: "Avdeling 16, Oslo", Status: model.StatusBooked,
			Delivery: model.DeliveryReady, Price: "1,600.00 NOK",
			Department: "Avdeling 16", CreatedBy: "Sindre", ProductTag: "E-bike",
		},
		{
			ID: "13", Ref: "LH44", Created: "20 Aug 2020 14:30",
			Customer: "Åse Berg", Products: "Helmet",
			Start: "21 Aug 2020 08:00", End: "22 Aug 2020 08:00",
			Distribution: "Ekebergveien 65, Oslo", Status: model.StatusBooked,
			Delivery: model.DeliveryPickedUp, Price: "120.00 NOK",
			Department: "Ekebergveien 65", CreatedBy: "Jonas",
		},
		{
			ID: "14", Ref: "TS49", Created: "01 Sep 2020 09:00",
			Customer: "Erik Lund", Products: "Bike lock",
			Start: "02 Sep 2020 09:00", End: "03 Sep 2020 09:00",
			Distribution: "Distribution Hub, Oslo", Status: model.StatusInCart,
			Delivery: model.DeliveryUnset, Price: "199.99",
			Department: "Distribution Hub", CreatedBy: "System", ProductTag: "Accessories",
		},
		{
			ID: "15", Ref: "QE50", Created: "12 Sep 2020 16:45",
			Customer: "Zara Olsen", Products: "Tandem",
			Start: "13 Sep 2020 09:00", End: model.Unset,
			Distribution: "Grøubøgata 1, Oslo", Status: model.StatusClosed,
			Delivery: model.DeliveryReturned, Price: "2,400.00 NOK",
			Department: "Grøubøgata 1", CreatedBy: "Helga", ProductTag: "Road bike",
		},
		{
			ID: "16", Ref: "ZM94", Created: "not a date",
			Customer: "Bjørn Dahl", Products: "Repair kit",
			Start: "14 Sep 2020 09:00", End: "15 Sep 2020 09:00",
			Distribution: "Ekeberg Logistikk, Oslo", Status: model.StatusDropped,
			Delivery: model.DeliveryDelayed, Price: "on request",
			Department: "Ekeberg Logistikk", CreatedBy: "Camilla", ProductTag: "Components",
		},
		{
			ID: "17", Ref: "AA23", Created: "01 Oct 2020 12:00",
			Customer: "Test Customer", Products: "Test product",
			Start: "01 Oct 2020 12:00", End: "01 Oct 2020 13:00",
			Distribution: "Avdeling 16, Oslo", Status: model.StatusTest,
			Delivery: model.DeliveryOnChecking, Price: "0.00 NOK",
			Department: "Avdeling 16", CreatedBy: "System",
		},
		{
			ID: "18", Ref: "GR88", Created: "05 Oct 2020 08:20",
			Customer: "Nora Vik", Products: "Kids bike",
			Start: "06 Oct 2020 08:00", End: "09 Oct 2020 08:00",
			Distribution: "Grøubøgata 1, Oslo", Status: model.StatusRequest,
			Delivery: model.DeliveryToTransport, Price: "450.00 NOK",
			Department: "Grøubøgata 1", CreatedBy: "Sindre", ProductTag: "Subscription",
		},
	}
}

// generated returns n simple orders with distinct refs and prices.
func generated(n int) []model.Order {
	out := make([]model.Order, n)
	for i := range out {
		status := model.StatusPriority[i%len(model.StatusPriority)]
		out[i] = order(fmt.Sprintf("GEN%02d", i+1), status, fmt.Sprintf("%d.00 NOK", 500+i*5))
	}
	return out
}
