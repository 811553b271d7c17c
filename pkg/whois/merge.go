package whois

// Provenance ranks where a field value came from.
type Provenance int

const (
	ProvenanceUnset Provenance = iota
	// ProvenanceFallback covers substring heuristics and low-priority keys
	// such as "descr". Fallback values only ever fill unset fields.
	ProvenanceFallback
	ProvenanceExact
	ProvenanceRule
)

func (p Provenance) String() string {
	switch p {
	case ProvenanceFallback:
		return "generic-substring"
	case ProvenanceExact:
		return "generic-exact"
	case ProvenanceRule:
		return "tld-rule"
	default:
		return "unset"
	}
}

// Field names a scalar string field of Record.
type Field int

const (
	FieldDomain Field = iota
	FieldRegistrar
	FieldRegistrarURL
	FieldIANAID
	FieldWhoisServer
	FieldUpdatedDate
	FieldCreationDate
	FieldExpirationDate
	FieldRegistrantName
	FieldRegistrantOrganization
	FieldRegistrantProvince
	FieldRegistrantCountry
	FieldRegistrantPhone
	FieldRegistrantEmail
	FieldDNSSEC
	FieldCIDR
	FieldInetNum
	FieldInet6Num
	FieldNetRange
	FieldNetName
	FieldNetType
	FieldOriginAS
	fieldCount
)

func (r *Record) field(f Field) *string {
	switch f {
	case FieldDomain:
		return &r.Domain
	case FieldRegistrar:
		return &r.Registrar
	case FieldRegistrarURL:
		return &r.RegistrarURL
	case FieldIANAID:
		return &r.IANAID
	case FieldWhoisServer:
		return &r.WhoisServer
	case FieldUpdatedDate:
		return &r.UpdatedDate
	case FieldCreationDate:
		return &r.CreationDate
	case FieldExpirationDate:
		return &r.ExpirationDate
	case FieldRegistrantName:
		return &r.RegistrantName
	case FieldRegistrantOrganization:
		return &r.RegistrantOrganization
	case FieldRegistrantProvince:
		return &r.RegistrantProvince
	case FieldRegistrantCountry:
		return &r.RegistrantCountry
	case FieldRegistrantPhone:
		return &r.RegistrantPhone
	case FieldRegistrantEmail:
		return &r.RegistrantEmail
	case FieldDNSSEC:
		return &r.DNSSEC
	case FieldCIDR:
		return &r.CIDR
	case FieldInetNum:
		return &r.InetNum
	case FieldInet6Num:
		return &r.Inet6Num
	case FieldNetRange:
		return &r.NetRange
	case FieldNetName:
		return &r.NetName
	case FieldNetType:
		return &r.NetType
	case FieldOriginAS:
		return &r.OriginAS
	}
	return nil
}

// builder fills a Record while tracking the provenance of every scalar
// field. The provenance table is dropped once the record is built.
type builder struct {
	rec  *Record
	prov [fieldCount]Provenance
}

func newBuilder(raw string) *builder {
	rec := NewRecord()
	rec.RawWhoisContent = raw
	return &builder{rec: rec}
}

// set offers a candidate value. Exact and rule values replace anything of
// equal or lower rank; fallback values only fill unset fields.
func (b *builder) set(f Field, value string, p Provenance) bool {
	if value == "" {
		return false
	}
	cur := b.prov[f]
	if p == ProvenanceFallback {
		if cur != ProvenanceUnset {
			return false
		}
	} else if p < cur {
		return false
	}
	*b.rec.field(f) = value
	b.prov[f] = p
	return true
}

func (b *builder) isSet(f Field) bool {
	return b.prov[f] != ProvenanceUnset
}

func (b *builder) provenance(f Field) Provenance {
	return b.prov[f]
}
