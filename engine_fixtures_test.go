package soapwire_test

import (
	soapwire "github.com/soapwire/soapwire"
)

// testIndex builds the shared inheritance forest used across the engine
// tests:
//
//	Animal{name} <- Dog{breed}, Cat{lives?}
//	Setting{name} <- TextSetting{value}, NumberSetting{value}   (identical shapes)
//	Order{id, items[]Item, note?}, Zoo{star Animal}
//	Color enum(red, green)
//	ApiFault{code, message}
func testIndex() soapwire.TypeIndex {
	animal := soapwire.NewObjectType("Animal")
	animal.AddProperty(soapwire.Property{Name: "name", Type: soapwire.StringType})
	animal.Children = []string{"Dog", "Cat"}

	dog := soapwire.NewObjectType("Dog")
	dog.Base = "Animal"
	dog.AddProperty(soapwire.Property{Name: "breed", Type: soapwire.StringType})

	cat := soapwire.NewObjectType("Cat")
	cat.Base = "Animal"
	cat.AddProperty(soapwire.Property{Name: "lives", Type: soapwire.IntType, IsOptional: true})

	setting := soapwire.NewObjectType("Setting")
	setting.AddProperty(soapwire.Property{Name: "name", Type: soapwire.StringType})
	setting.Children = []string{"TextSetting", "NumberSetting"}

	textSetting := soapwire.NewObjectType("TextSetting")
	textSetting.Base = "Setting"
	textSetting.AddProperty(soapwire.Property{Name: "value", Type: soapwire.StringType})

	numberSetting := soapwire.NewObjectType("NumberSetting")
	numberSetting.Base = "Setting"
	numberSetting.AddProperty(soapwire.Property{Name: "value", Type: soapwire.StringType})

	item := soapwire.NewObjectType("Item")
	item.AddProperty(soapwire.Property{Name: "sku", Type: soapwire.StringType})
	item.AddProperty(soapwire.Property{Name: "qty", Type: soapwire.IntType})

	order := soapwire.NewObjectType("Order")
	order.AddProperty(soapwire.Property{Name: "id", Type: soapwire.StringType})
	order.AddProperty(soapwire.Property{Name: "items", Type: item, IsArray: true})
	order.AddProperty(soapwire.Property{Name: "note", Type: soapwire.StringType, IsOptional: true})

	zoo := soapwire.NewObjectType("Zoo")
	zoo.AddProperty(soapwire.Property{Name: "star", Type: animal})

	pair := soapwire.NewObjectType("Pair")
	pair.AddProperty(soapwire.Property{Name: "prop1", Type: soapwire.StringType})
	pair.AddProperty(soapwire.Property{Name: "prop2", Type: soapwire.StringType})

	apiFault := soapwire.NewObjectType("ApiFault")
	apiFault.AddProperty(soapwire.Property{Name: "code", Type: soapwire.StringType})
	apiFault.AddProperty(soapwire.Property{Name: "message", Type: soapwire.StringType})

	color := &soapwire.Enum{Name: "Color", Values: []string{"red", "green"}}

	ix := soapwire.TypeIndex{
		"Animal":        animal,
		"Dog":           dog,
		"Cat":           cat,
		"Setting":       setting,
		"TextSetting":   textSetting,
		"NumberSetting": numberSetting,
		"Item":          item,
		"Order":         order,
		"Zoo":           zoo,
		"Pair":          pair,
		"ApiFault":      apiFault,
		"Color":         color,
	}
	if err := ix.Validate(); err != nil {
		panic("test fixture index is inconsistent: " + err.Error())
	}
	return ix
}

// issueCode extracts the code of the first Issue in err, or "".
func issueCode(err error) string {
	iss, ok := soapwire.AsIssues(err)
	if !ok || len(iss) == 0 {
		return ""
	}
	return iss[0].Code
}
