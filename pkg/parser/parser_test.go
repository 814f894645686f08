package parser

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/atlasbridge/odx/pkg/models"
	"github.com/atlasbridge/odx/pkg/odx"
)

// buildSource wraps a service-body fragment in a complete source file with
// the standard declarations and the host-code framing around the XML.
func buildSource(body string) []byte {
	return []byte(fmt.Sprintf(`#if __DESIGNER_DATA
<?xml version="1.0" encoding="utf-16"?>
<Element Type="Module" OID="{mod}">
  <Property Name="Name" Value="Contoso.Orders" />
  <Element Type="ServiceDeclaration" OID="{svc}">
    <Property Name="Name" Value="ProcessOrder" />
    <Element Type="MessageDeclaration" OID="{msg-in}">
      <Property Name="Name" Value="OrderIn" />
      <Property Name="Type" Value="Contoso.Schemas.Order" />
      <Property Name="ParameterDirection" Value="In" />
    </Element>
    <Element Type="MessageDeclaration" OID="{msg-out}">
      <Property Name="Name" Value="OrderOut" />
      <Property Name="Type" Value="Contoso.Schemas.Invoice" />
    </Element>
    <Element Type="PortTypeDeclaration" OID="{pt1}">
      <Property Name="Name" Value="OrderPortType" />
      <Element Type="OperationDeclaration" OID="{op1}">
        <Property Name="Name" Value="SubmitOrder" />
        <Property Name="OperationType" Value="RequestResponse" />
        <Property Name="RequestMessage" Value="OrderIn" />
        <Property Name="ResponseMessage" Value="OrderOut" />
      </Element>
    </Element>
    <Element Type="PortDeclaration" OID="{port1}">
      <Property Name="Name" Value="OrderPort" />
      <Property Name="Type" Value="OrderPortType" />
      <Property Name="Implements" Value="True" />
      <Property Name="RequestResponse" Value="True" />
      <Property Name="BindingKind" Value="Physical" />
    </Element>
    <Element Type="ServiceBody" OID="{body}">
%s
    </Element>
  </Element>
</Element>
#endif // __DESIGNER_DATA
public class ProcessOrder {}
`, body))
}

func mustParse(t *testing.T, body string) *models.OrchestrationModel {
	t.Helper()
	m, err := New().Parse(buildSource(body))
	if err != nil {
		t.Fatalf("Parse() error: %v", err)
	}
	return m
}

func TestParseDeclarations(t *testing.T) {
	m := mustParse(t, "")

	if m.Namespace != "Contoso.Orders" || m.Name != "ProcessOrder" {
		t.Errorf("identity = %s/%s, want Contoso.Orders/ProcessOrder", m.Namespace, m.Name)
	}
	if got := m.QualifiedName(); got != "Contoso.Orders.ProcessOrder" {
		t.Errorf("QualifiedName() = %q", got)
	}

	if len(m.Messages) != 2 {
		t.Fatalf("messages = %d, want 2", len(m.Messages))
	}
	if m.Messages[0].Name != "OrderIn" || m.Messages[0].SchemaType != "Contoso.Schemas.Order" {
		t.Errorf("first message = %+v", m.Messages[0])
	}
	if m.Messages[0].Direction != models.DirectionIn {
		t.Errorf("first message direction = %q, want in", m.Messages[0].Direction)
	}
	if m.Messages[1].Direction != models.DirectionNone {
		t.Errorf("undeclared direction = %q, want none", m.Messages[1].Direction)
	}

	if len(m.PortTypes) != 1 || len(m.PortTypes[0].Operations) != 1 {
		t.Fatalf("port types = %+v", m.PortTypes)
	}
	op := m.PortTypes[0].Operations[0]
	if op.Kind != models.OperationRequestResponse {
		t.Errorf("operation kind = %q, want request_response", op.Kind)
	}
	if op.RequestMessage != "OrderIn" || op.ResponseMessage != "OrderOut" {
		t.Errorf("operation messages = %+v", op)
	}

	if len(m.Ports) != 1 {
		t.Fatalf("ports = %d, want 1", len(m.Ports))
	}
	port := m.Ports[0]
	if port.Direction != models.PortReceiveThenSend {
		t.Errorf("port direction = %q, want receive_send", port.Direction)
	}
	if port.Binding != models.BindingPhysical {
		t.Errorf("port binding = %q, want physical", port.Binding)
	}
}

func TestParseSkipsUnnamedDeclarations(t *testing.T) {
	src := []byte(`<?xml version="1.0"?>
<Element Type="Module" OID="{mod}">
  <Property Name="Name" Value="Ns" />
  <Element Type="ServiceDeclaration" OID="{svc}">
    <Property Name="Name" Value="Svc" />
    <Element Type="MessageDeclaration" OID="{m1}" />
    <Element Type="PortDeclaration" OID="{p1}" />
  </Element>
</Element>
#endif
`)
	m, err := New().Parse(src)
	if err != nil {
		t.Fatalf("Parse() error: %v", err)
	}
	if len(m.Messages) != 0 || len(m.Ports) != 0 {
		t.Errorf("unnamed declarations should be skipped, got %d messages %d ports",
			len(m.Messages), len(m.Ports))
	}
}

func TestParseBodySequence(t *testing.T) {
	m := mustParse(t, `
      <Element Type="Receive" OID="{rcv1}">
        <Property Name="Name" Value="RcvOrder" />
        <Property Name="PortName" Value="OrderPort" />
        <Property Name="MessageName" Value="OrderIn" />
        <Property Name="OperationName" Value="SubmitOrder" />
        <Property Name="Activate" Value="True" />
      </Element>
      <Element Type="Expression" OID="{ex1}">
        <Property Name="Name" Value="Init" />
        <Property Name="Expression" Value="count = 0" />
      </Element>
      <Element Type="Send" OID="{snd1}">
        <Property Name="Name" Value="SndInvoice" />
        <Property Name="PortName" Value="OrderPort" />
        <Property Name="MessageName" Value="OrderOut" />
      </Element>`)

	if len(m.Shapes) != 3 {
		t.Fatalf("body shapes = %d, want 3", len(m.Shapes))
	}
	for i, s := range m.Shapes {
		if s.Sequence != i {
			t.Errorf("shape %d sequence = %d", i, s.Sequence)
		}
	}

	rcv := m.Shapes[0]
	if rcv.Kind != models.ShapeReceive {
		t.Fatalf("first shape kind = %q", rcv.Kind)
	}
	d := rcv.Receive()
	if d == nil {
		t.Fatal("receive detail missing")
	}
	if d.Port != "OrderPort" || d.Message != "OrderIn" || d.Operation != "SubmitOrder" || !d.Activate {
		t.Errorf("receive detail = %+v", d)
	}

	if m.Shapes[2].Kind != models.ShapeSend {
		t.Errorf("third shape kind = %q", m.Shapes[2].Kind)
	}
}

func TestParseDeterministicKeys(t *testing.T) {
	body := `
      <Element Type="Receive" OID="{rcv1}">
        <Property Name="Name" Value="Rcv" />
      </Element>
      <Element Type="Send" OID="{snd1}">
        <Property Name="Name" Value="Snd" />
      </Element>`
	a := mustParse(t, body)
	b := mustParse(t, body)

	for i := range a.Shapes {
		if a.Shapes[i].Key == 0 {
			t.Errorf("shape %d has zero key", i)
		}
		if a.Shapes[i].Key != b.Shapes[i].Key {
			t.Errorf("shape %d key differs across runs", i)
		}
	}
	if a.Shapes[0].Key == a.Shapes[1].Key {
		t.Error("sibling shapes should get distinct keys")
	}
}

func TestParseDecision(t *testing.T) {
	m := mustParse(t, `
      <Element Type="Decision" OID="{dec1}">
        <Property Name="Name" Value="CheckTotal" />
        <Element Type="DecisionBranch" OID="{br-t}">
          <Property Name="Name" Value="Rule_1" />
          <Property Name="Expression" Value="OrderIn.Total &gt; 1000" />
          <Element Type="Send" OID="{snd-es}">
            <Property Name="Name" Value="SndEscalate" />
          </Element>
        </Element>
        <Element Type="DecisionBranch" OID="{br-f}">
          <Property Name="Name" Value="Else" />
          <Element Type="Send" OID="{snd-ok}">
            <Property Name="Name" Value="SndApprove" />
          </Element>
          <Element Type="Expression" OID="{log1}">
            <Property Name="Name" Value="LogIt" />
            <Property Name="Expression" Value="Log()" />
          </Element>
        </Element>
      </Element>
      <Element Type="Send" OID="{snd-after}">
        <Property Name="Name" Value="SndAfter" />
      </Element>`)

	dec := m.Shapes[0]
	if dec.Kind != models.ShapeDecide {
		t.Fatalf("shape kind = %q", dec.Kind)
	}
	d := dec.Decide()
	if d == nil {
		t.Fatal("decide detail missing")
	}
	if d.Condition != "OrderIn.Total > 1000" {
		t.Errorf("condition = %q", d.Condition)
	}
	if len(dec.Children) != 0 {
		t.Errorf("decision should carry no generic children, got %d", len(dec.Children))
	}

	if len(d.TrueBranch) != 1 || d.TrueBranch[0].Name != "SndEscalate" {
		t.Errorf("true branch = %+v", d.TrueBranch)
	}
	if len(d.FalseBranch) != 2 || d.FalseBranch[0].Name != "SndApprove" {
		t.Errorf("false branch = %+v", d.FalseBranch)
	}

	// Branch shapes belong to the decision node.
	if d.TrueBranch[0].Parent != dec || d.FalseBranch[0].Parent != dec {
		t.Error("branch shapes should be parented to the decision")
	}

	// Each branch restarts its own sequence counter; the body counter keeps
	// running for the decision's siblings.
	if d.TrueBranch[0].Sequence != 0 || d.FalseBranch[0].Sequence != 0 {
		t.Error("branch sequences should restart at 0")
	}
	if d.FalseBranch[1].Sequence != 1 {
		t.Errorf("second false-branch shape sequence = %d", d.FalseBranch[1].Sequence)
	}
	if m.Shapes[1].Sequence != 1 {
		t.Errorf("body sibling sequence = %d, want 1", m.Shapes[1].Sequence)
	}
}

func TestParseDecisionPositionalFallback(t *testing.T) {
	m := mustParse(t, `
      <Element Type="Decision" OID="{dec1}">
        <Property Name="Name" Value="Check" />
        <Property Name="Expression" Value="flag" />
        <Element Type="DecisionBranch" OID="{b1}">
          <Element Type="Send" OID="{s1}"><Property Name="Name" Value="A" /></Element>
        </Element>
        <Element Type="DecisionBranch" OID="{b2}">
          <Element Type="Send" OID="{s2}"><Property Name="Name" Value="B" /></Element>
        </Element>
      </Element>`)

	d := m.Shapes[0].Decide()
	if d.Condition != "flag" {
		t.Errorf("condition = %q, want the decision's own expression", d.Condition)
	}
	if len(d.TrueBranch) != 1 || d.TrueBranch[0].Name != "A" {
		t.Errorf("true branch = %+v", d.TrueBranch)
	}
	if len(d.FalseBranch) != 1 || d.FalseBranch[0].Name != "B" {
		t.Errorf("false branch = %+v", d.FalseBranch)
	}
}

func TestParseDecisionPromotesExpressionShape(t *testing.T) {
	// The first expression sub-element is empty, so the branch resolver finds
	// no condition anywhere; the non-empty expression shape inside the true
	// branch is promoted instead.
	m := mustParse(t, `
      <Element Type="Decision" OID="{dec1}">
        <Element Type="DecisionBranch" OID="{b1}">
          <Element Type="Expression" OID="{e0}" />
          <Element Type="Expression" OID="{e1}">
            <Property Name="Expression" Value="order.Valid" />
          </Element>
        </Element>
        <Element Type="DecisionBranch" OID="{b2}" />
      </Element>`)

	d := m.Shapes[0].Decide()
	if d.Condition != "order.Valid" {
		t.Errorf("condition = %q, want promoted expression", d.Condition)
	}
	if len(d.TrueBranch) != 2 {
		t.Errorf("true branch = %d shapes, want 2", len(d.TrueBranch))
	}
}

func TestParseSwitch(t *testing.T) {
	m := mustParse(t, `
      <Element Type="Switch" OID="{sw1}">
        <Property Name="Name" Value="Route" />
        <Property Name="Expression" Value="OrderIn.Region" />
        <Element Type="SwitchCase" OID="{c1}">
          <Property Name="Name" Value="CaseOne" />
          <Property Name="Expression" Value="1" />
          <Element Type="Send" OID="{sa}"><Property Name="Name" Value="A" /></Element>
        </Element>
        <Element Type="SwitchCase" OID="{c2}">
          <Property Name="Expression" Value="1" />
          <Element Type="Send" OID="{sb}"><Property Name="Name" Value="B" /></Element>
        </Element>
        <Element Type="SwitchCase" OID="{c3}">
          <Property Name="Name" Value="Else" />
          <Element Type="Send" OID="{sc}"><Property Name="Name" Value="C" /></Element>
        </Element>
      </Element>`)

	d := m.Shapes[0].Switch()
	if d == nil {
		t.Fatal("switch detail missing")
	}
	if d.Expression != "OrderIn.Region" {
		t.Errorf("expression = %q", d.Expression)
	}
	if len(d.Cases) != 2 {
		t.Fatalf("cases = %d, want 2 (merged duplicate plus default)", len(d.Cases))
	}

	one := d.Cases[0]
	if one.Key != "1" || one.Default {
		t.Errorf("first case = %+v", one)
	}
	if len(one.Shapes) != 2 || one.Shapes[0].Name != "A" || one.Shapes[1].Name != "B" {
		t.Errorf("duplicate keys should concatenate shape lists, got %+v", one.Shapes)
	}

	def := d.Cases[1]
	if !def.Default || def.Key != "default" {
		t.Errorf("default case = %+v", def)
	}
	if len(def.Shapes) != 1 || def.Shapes[0].Name != "C" {
		t.Errorf("default shapes = %+v", def.Shapes)
	}
}

func TestParseListen(t *testing.T) {
	m := mustParse(t, `
      <Element Type="Listen" OID="{ls1}">
        <Property Name="Name" Value="WaitForReply" />
        <Element Type="ListenBranch" OID="{lb1}">
          <Property Name="Name" Value="OnMessage" />
          <Element Type="Receive" OID="{rl1}">
            <Property Name="Name" Value="RcvReply" />
          </Element>
          <Element Type="Send" OID="{sl1}">
            <Property Name="Name" Value="SndAck" />
          </Element>
        </Element>
        <Element Type="ListenBranch" OID="{lb2}">
          <Property Name="Name" Value="OnTimeout" />
          <Element Type="Delay" OID="{dl1}">
            <Property Name="Name" Value="Wait30s" />
            <Property Name="Timeout" Value="PT30S" />
          </Element>
        </Element>
      </Element>`)

	listen := m.Shapes[0]
	d := listen.Listen()
	if d == nil {
		t.Fatal("listen detail missing")
	}
	if len(listen.Children) != 0 {
		t.Errorf("listen should carry no generic children, got %d", len(listen.Children))
	}
	if len(d.Branches) != 2 {
		t.Fatalf("branches = %d, want 2", len(d.Branches))
	}
	if d.Branches[0].Name != "OnMessage" || d.Branches[1].Name != "OnTimeout" {
		t.Errorf("branch names = %q, %q", d.Branches[0].Name, d.Branches[1].Name)
	}
	if len(d.Branches[0].Shapes) != 2 || len(d.Branches[1].Shapes) != 1 {
		t.Errorf("branch shape counts = %d, %d", len(d.Branches[0].Shapes), len(d.Branches[1].Shapes))
	}
	for _, b := range d.Branches {
		for _, s := range b.Shapes {
			if s.Parent != listen {
				t.Errorf("branch shape %q should be parented to the listen node", s.Name)
			}
		}
		if b.Shapes[0].Sequence != 0 {
			t.Errorf("branch %q first sequence = %d", b.Name, b.Shapes[0].Sequence)
		}
	}
}

func TestParseCorrelation(t *testing.T) {
	m := mustParse(t, `
      <Element Type="Receive" OID="{rcv-a}">
        <Property Name="Name" Value="RcvA" />
        <Property Name="Activate" Value="True" />
      </Element>
      <Element Type="Receive" OID="{rcv-b}">
        <Property Name="Name" Value="RcvB" />
      </Element>
      <Element Type="Send" OID="{snd-a}">
        <Property Name="Name" Value="SndA" />
      </Element>
      <Element Type="CorrelationDeclaration" OID="{cor1}">
        <Property Name="Name" Value="OrderCorrelation" />
        <Element Type="StatementRef" OID="{sr1}">
          <Property Name="Ref" Value="{rcv-a}" />
          <Property Name="Initializes" Value="True" />
        </Element>
        <Element Type="StatementRef" OID="{sr2}">
          <Property Name="Ref" Value="{rcv-b}" />
          <Property Name="Initializes" Value="False" />
        </Element>
        <Element Type="StatementRef" OID="{sr3}">
          <Property Name="Ref" Value="{rcv-b}" />
          <Property Name="Initializes" Value="False" />
        </Element>
        <Element Type="StatementRef" OID="{sr4}">
          <Property Name="Ref" Value="{snd-a}" />
        </Element>
        <Element Type="StatementRef" OID="{sr5}">
          <Property Name="Ref" Value="{nowhere}" />
        </Element>
      </Element>`)

	sets := m.CorrelationSets()
	if len(sets) != 1 || sets[0].Name != "OrderCorrelation" {
		t.Fatalf("correlation sets = %+v", sets)
	}
	if len(sets[0].Correlation().Statements) != 5 {
		t.Errorf("statements = %d, want 5", len(sets[0].Correlation().Statements))
	}

	rcvA := m.Index["{rcv-a}"].Receive()
	if len(rcvA.Initializes) != 1 || rcvA.Initializes[0] != "OrderCorrelation" {
		t.Errorf("rcv-a initializes = %v", rcvA.Initializes)
	}
	if len(rcvA.Follows) != 0 {
		t.Errorf("rcv-a follows = %v", rcvA.Follows)
	}

	// The duplicate reference must not duplicate the follows entry.
	rcvB := m.Index["{rcv-b}"].Receive()
	if len(rcvB.Follows) != 1 || rcvB.Follows[0] != "OrderCorrelation" {
		t.Errorf("rcv-b follows = %v", rcvB.Follows)
	}

	// Statement refs are payload, not shapes.
	if _, ok := m.Index["{sr1}"]; ok {
		t.Error("statement refs should not be indexed")
	}
}

func TestParseConstructAndTransform(t *testing.T) {
	m := mustParse(t, `
      <Element Type="Construct" OID="{cn1}">
        <Property Name="Name" Value="BuildInvoice" />
        <Property Name="MessageRef" Value="{msg-out}" />
        <Element Type="Transform" OID="{tf1}">
          <Property Name="Name" Value="MapOrder" />
          <Property Name="ClassName" Value="Contoso.Maps.OrderToInvoice" />
          <Element Type="MessagePartRef" OID="{mp1}">
            <Property Name="MessageRef" Value="{msg-in}" />
          </Element>
          <Element Type="MessagePartRef" OID="{mp2}">
            <Property Name="MessageRef" Value="{msg-out}" />
          </Element>
        </Element>
        <Element Type="MessageAssignment" OID="{ma1}">
          <Property Name="Name" Value="SetId" />
          <Property Name="Expression" Value="OrderOut.Id = NewGuid()" />
        </Element>
      </Element>`)

	cn := m.Shapes[0]
	if cn.Kind != models.ShapeConstruct {
		t.Fatalf("shape kind = %q", cn.Kind)
	}
	cd, ok := cn.Detail.(*models.ConstructDetail)
	if !ok {
		t.Fatal("construct detail missing")
	}
	if len(cd.Messages) != 1 || cd.Messages[0] != "{msg-out}" {
		t.Errorf("constructed messages = %v", cd.Messages)
	}

	if len(cn.Children) != 2 {
		t.Fatalf("construct children = %d, want transform and assignment", len(cn.Children))
	}

	tf := cn.Children[0]
	td, ok := tf.Detail.(*models.TransformDetail)
	if !ok {
		t.Fatal("transform detail missing")
	}
	if td.MapClass != "Contoso.Maps.OrderToInvoice" {
		t.Errorf("map class = %q", td.MapClass)
	}
	// Exactly two part refs: first is the input, second is the output.
	if len(td.Inputs) != 1 || td.Inputs[0] != "{msg-in}" {
		t.Errorf("transform inputs = %v", td.Inputs)
	}
	if td.Output != "{msg-out}" {
		t.Errorf("transform output = %q", td.Output)
	}

	as := cn.Children[1]
	if as.Kind != models.ShapeAssign {
		t.Errorf("second child kind = %q", as.Kind)
	}
}

func TestParseTransformOtherArities(t *testing.T) {
	m := mustParse(t, `
      <Element Type="Construct" OID="{cn1}">
        <Property Name="Name" Value="Build" />
        <Element Type="Transform" OID="{tf1}">
          <Element Type="MessagePartRef" OID="{p1}"><Property Name="MessageRef" Value="a" /></Element>
          <Element Type="MessagePartRef" OID="{p2}"><Property Name="MessageRef" Value="b" /></Element>
          <Element Type="MessagePartRef" OID="{p3}"><Property Name="MessageRef" Value="c" /></Element>
        </Element>
      </Element>`)

	td := m.Shapes[0].Children[0].Detail.(*models.TransformDetail)
	if len(td.Inputs) != 3 || td.Output != "" {
		t.Errorf("three part refs should all stay inputs, got inputs=%v output=%q", td.Inputs, td.Output)
	}
}

func TestParseCallRules(t *testing.T) {
	m := mustParse(t, `
      <Element Type="CallPolicy" OID="{cp1}">
        <Property Name="PolicyName" Value="Contoso.Pricing-Policy_v2!" />
      </Element>
      <Element Type="CallRules" OID="{cr1}">
        <Property Name="Name" Value="ApplyDiscount" />
        <Property Name="PolicyName" Value="Discounts" />
      </Element>`)

	cp := m.Shapes[0]
	if cp.Kind != models.ShapeCallRules {
		t.Fatalf("shape kind = %q", cp.Kind)
	}
	if cp.Name != "ContosoPricingPolicyv2" {
		t.Errorf("derived name = %q", cp.Name)
	}
	d := cp.Detail.(*models.CallRulesDetail)
	if d.Policy != "Contoso.Pricing-Policy_v2!" {
		t.Errorf("policy = %q", d.Policy)
	}

	// An explicit name is never overwritten.
	if m.Shapes[1].Name != "ApplyDiscount" {
		t.Errorf("explicit name = %q", m.Shapes[1].Name)
	}
}

func TestParseCallRulesNameCap(t *testing.T) {
	long := strings.Repeat("Abcde12345", 10)
	m := mustParse(t, `
      <Element Type="CallRules" OID="{cr1}">
        <Property Name="PolicyName" Value="`+long+`" />
      </Element>`)

	if got := len(m.Shapes[0].Name); got != 40 {
		t.Errorf("derived name length = %d, want 40", got)
	}
}

func TestParseScopeTransaction(t *testing.T) {
	m := mustParse(t, `
      <Element Type="Scope" OID="{sc1}">
        <Property Name="Name" Value="TxScope" />
        <Element Type="TransactionAttribute" OID="{ta1}">
          <Property Name="TransactionType" Value="LongRunning" />
        </Element>
        <Element Type="Send" OID="{s1}">
          <Property Name="Name" Value="Inside" />
        </Element>
      </Element>`)

	sc := m.Shapes[0]
	d := sc.Detail.(*models.ScopeDetail)
	if d.TransactionType != "LongRunning" {
		t.Errorf("transaction type = %q", d.TransactionType)
	}

	// The attribute element contributes metadata only, never a node.
	if len(sc.Children) != 1 || sc.Children[0].Name != "Inside" {
		t.Errorf("scope children = %+v", sc.Children)
	}
	if _, ok := m.Index["{ta1}"]; ok {
		t.Error("transaction attribute should not be indexed")
	}
}

func TestParseForEachDefaultIterator(t *testing.T) {
	m := mustParse(t, `
      <Element Type="ForEach" OID="{fe1}">
        <Property Name="Name" Value="EachLine" />
        <Property Name="Collection" Value="OrderIn.Lines" />
      </Element>`)

	d := m.Shapes[0].Detail.(*models.ForEachDetail)
	if d.Collection != "OrderIn.Lines" {
		t.Errorf("collection = %q", d.Collection)
	}
	if d.Iterator != "item" {
		t.Errorf("iterator = %q, want the default placeholder", d.Iterator)
	}
}

func TestParseUnknownShapeFallback(t *testing.T) {
	m := mustParse(t, `
      <Element Type="HolographicShape" OID="{h1}">
        <Property Name="Name" Value="Mystery" />
        <Element Type="Send" OID="{s1}">
          <Property Name="Name" Value="Nested" />
        </Element>
      </Element>`)

	n := m.Shapes[0]
	if n.Kind != models.ShapeUnknown {
		t.Fatalf("kind = %q, want unknown", n.Kind)
	}
	d := n.Detail.(*models.FallbackDetail)
	if d.RawType != "HolographicShape" {
		t.Errorf("raw type = %q", d.RawType)
	}
	// Unknown kinds still recurse into children.
	if len(n.Children) != 1 || n.Children[0].Name != "Nested" {
		t.Errorf("fallback children = %+v", n.Children)
	}
}

func TestParseIndexFirstWins(t *testing.T) {
	m := mustParse(t, `
      <Element Type="Send" OID="{dup}">
        <Property Name="Name" Value="First" />
      </Element>
      <Element Type="Send" OID="{dup}">
        <Property Name="Name" Value="Second" />
      </Element>`)

	if len(m.Shapes) != 2 {
		t.Fatalf("shapes = %d, want both nodes built", len(m.Shapes))
	}
	if got := m.Index["{dup}"].Name; got != "First" {
		t.Errorf("index winner = %q, want First", got)
	}
}

func TestParseMissingName(t *testing.T) {
	src := []byte(`<?xml version="1.0"?>
<Element Type="Module" OID="{mod}">
  <Element Type="ServiceDeclaration" OID="{svc}" />
</Element>
#endif
`)
	_, err := New().Parse(src)
	if err == nil {
		t.Fatal("expected error for missing orchestration name")
	}
	var se *odx.SemanticError
	if !errors.As(err, &se) {
		t.Errorf("expected SemanticError, got %T", err)
	}
}

func TestParseMissingModule(t *testing.T) {
	src := []byte(`<?xml version="1.0"?>
<Element Type="SomethingElse" OID="{x}" />
#endif
`)
	_, err := New().Parse(src)
	if err == nil {
		t.Fatal("expected error for missing module element")
	}
	var se *odx.SemanticError
	if !errors.As(err, &se) {
		t.Errorf("expected SemanticError, got %T", err)
	}
}

func TestParseFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "process_order.odx")
	if err := os.WriteFile(path, buildSource(""), 0o644); err != nil {
		t.Fatal(err)
	}

	m, err := New().ParseFile(path)
	if err != nil {
		t.Fatalf("ParseFile() error: %v", err)
	}
	if m.Name != "ProcessOrder" {
		t.Errorf("name = %q", m.Name)
	}
}

func TestParseFileAttachesPath(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "broken.odx")
	if err := os.WriteFile(path, []byte("no designer data here"), 0o644); err != nil {
		t.Fatal(err)
	}

	_, err := New().ParseFile(path)
	if err == nil {
		t.Fatal("expected error")
	}
	var fe *odx.FormatError
	if !errors.As(err, &fe) {
		t.Fatalf("expected FormatError, got %T", err)
	}
	if fe.Path != path {
		t.Errorf("error path = %q, want %q", fe.Path, path)
	}
}

func TestParseTrace(t *testing.T) {
	var lines []string
	p := New(WithTrace(func(format string, args ...any) {
		lines = append(lines, fmt.Sprintf(format, args...))
	}))

	if _, err := p.Parse(buildSource(`
      <Element Type="Send" OID="{s1}">
        <Property Name="Name" Value="Snd" />
      </Element>`)); err != nil {
		t.Fatal(err)
	}
	if len(lines) == 0 {
		t.Error("trace sink should receive events")
	}
}

func TestShapeDispatchTable(t *testing.T) {
	if len(builders) == 0 {
		t.Fatal("dispatch table is empty")
	}

	branchResolvers := map[string]models.ShapeKind{
		"construct": models.ShapeConstruct,
		"decision":  models.ShapeDecide,
		"switch":    models.ShapeSwitch,
		"listen":    models.ShapeListen,
	}
	for typ, kind := range branchResolvers {
		b, ok := builders[typ]
		if !ok {
			t.Fatalf("builders[%q] missing", typ)
		}
		if b.kind != kind {
			t.Errorf("builders[%q].kind = %v, want %v", typ, b.kind, kind)
		}
		if b.fill == nil {
			t.Errorf("builders[%q] has no fill func", typ)
		}
		if !b.noRecurse {
			t.Errorf("builders[%q] should suppress generic recursion", typ)
		}
	}
}
