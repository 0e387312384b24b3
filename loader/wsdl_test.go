package loader_test

import (
	"testing"

	soapwire "github.com/soapwire/soapwire"
	"github.com/soapwire/soapwire/loader"
)

const orderWSDL = `<?xml version="1.0" encoding="UTF-8"?>
<wsdl:definitions xmlns:wsdl="http://schemas.xmlsoap.org/wsdl/" xmlns:xsd="http://www.w3.org/2001/XMLSchema">
  <wsdl:types>
    <xsd:schema targetNamespace="urn:orders">
      <xsd:complexType name="Item">
        <xsd:sequence>
          <xsd:element name="sku" type="xsd:string"/>
          <xsd:element name="qty" type="xsd:int"/>
        </xsd:sequence>
      </xsd:complexType>
      <xsd:complexType name="Order">
        <xsd:sequence>
          <xsd:element name="id" type="xsd:string"/>
          <xsd:element name="items" type="tns:Item" maxOccurs="unbounded"/>
          <xsd:element name="note" type="xsd:string" minOccurs="0"/>
        </xsd:sequence>
      </xsd:complexType>
      <xsd:complexType name="PriorityOrder">
        <xsd:complexContent>
          <xsd:extension base="tns:Order">
            <xsd:sequence>
              <xsd:element name="deadline" type="xsd:dateTime"/>
            </xsd:sequence>
          </xsd:extension>
        </xsd:complexContent>
      </xsd:complexType>
      <xsd:simpleType name="Status">
        <xsd:restriction base="xsd:string">
          <xsd:enumeration value="open"/>
          <xsd:enumeration value="closed"/>
        </xsd:restriction>
      </xsd:simpleType>
      <xsd:simpleType name="Quantity">
        <xsd:restriction base="xsd:int"/>
      </xsd:simpleType>
    </xsd:schema>
  </wsdl:types>
</wsdl:definitions>`

func TestFromWSDL_ComplexTypes(t *testing.T) {
	ix, err := loader.FromWSDL([]byte(orderWSDL))
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}

	order, ok := ix.Object("Order")
	if !ok {
		t.Fatalf("Order not built")
	}
	items, ok := order.Property("items")
	if !ok || !items.IsArray {
		t.Fatalf("maxOccurs=unbounded must map to an array: %#v", items)
	}
	if items.Type.TypeName() != "Item" {
		t.Fatalf("schema-local element type not resolved: %#v", items)
	}
	note, _ := order.Property("note")
	if !note.IsOptional {
		t.Fatalf("minOccurs=0 must map to optional: %#v", note)
	}

	item, _ := ix.Object("Item")
	qty, _ := item.Property("qty")
	if qty.Type != soapwire.IntType {
		t.Fatalf("xsd:int must fold onto the int primitive: %#v", qty)
	}
}

func TestFromWSDL_ExtensionBecomesInheritance(t *testing.T) {
	ix, err := loader.FromWSDL([]byte(orderWSDL))
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	prio, ok := ix.Object("PriorityOrder")
	if !ok || prio.Base != "Order" {
		t.Fatalf("extension base not linked: %#v", prio)
	}
	if _, ok := prio.Property("deadline"); !ok {
		t.Fatalf("extension sequence lost")
	}
	order, _ := ix.Object("Order")
	found := false
	for _, c := range order.Children {
		if c == "PriorityOrder" {
			found = true
		}
	}
	if !found {
		t.Fatalf("child link missing on base: %#v", order.Children)
	}
	// xsd:dateTime has no dedicated kind and folds onto string.
	deadline, _ := prio.Property("deadline")
	if deadline.Type != soapwire.StringType {
		t.Fatalf("expected dateTime folded to string: %#v", deadline)
	}
}

func TestFromWSDL_SimpleTypes(t *testing.T) {
	ix, err := loader.FromWSDL([]byte(orderWSDL))
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	status, ok := ix["Status"].(*soapwire.Enum)
	if !ok {
		t.Fatalf("string enumeration not built: %#v", ix["Status"])
	}
	if !status.Contains("open") || status.Contains("missing") {
		t.Fatalf("unexpected enum values: %#v", status.Values)
	}
	// Non-enumeration restrictions are skipped, not rejected.
	if _, exists := ix["Quantity"]; exists {
		t.Fatalf("plain restriction must be skipped")
	}
}

func TestFromWSDL_StandaloneSchema(t *testing.T) {
	xsd := `<xsd:schema xmlns:xsd="http://www.w3.org/2001/XMLSchema">
  <xsd:complexType name="Ping">
    <xsd:sequence>
      <xsd:element name="ok" type="xsd:boolean"/>
    </xsd:sequence>
  </xsd:complexType>
</xsd:schema>`
	ix, err := loader.FromWSDL([]byte(xsd))
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if _, ok := ix.Object("Ping"); !ok {
		t.Fatalf("standalone schema not accepted")
	}
}

func TestFromWSDL_NoSchema(t *testing.T) {
	if _, err := loader.FromWSDL([]byte(`<definitions></definitions>`)); err == nil {
		t.Fatalf("expected an error without a schema section")
	}
}
