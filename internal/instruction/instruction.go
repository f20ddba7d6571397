package instruction

import (
	"encoding/binary"
	"fmt"

	"github.com/near/borsh-go"

	"github.com/Plant-GO/biodex/internal/domain"
)

// MAX_INSTRUCTION_SIZE bounds the envelope length
const MAX_INSTRUCTION_SIZE = 1232

// Envelope variant tags
const (
	TagCreateAssetPool  uint8 = 0
	TagIssueCard        uint8 = 1
	TagIssueRegularCard uint8 = 2
	TagIssueQuizCard    uint8 = 3
)

// Operation names, also used as journal operations
const (
	OpCreateAssetPool  = "create_asset_pool"
	OpIssueRegularCard = "issue_regular_card"
	OpIssueQuizCard    = "issue_quiz_card"
)

// Instruction is a decoded, validated operation
type Instruction interface {
	Operation() string
	isInstruction()
}

// CreateAssetPool creates the pool of one card design
type CreateAssetPool struct {
	Title  string
	Symbol string
	URI    string
}

// IssueRegularCard issues a discovery card
type IssueRegularCard struct {
	RarityTag    domain.RarityTier
	SubjectName  string
	IsNewSubject bool
}

// IssueQuizCard issues a quiz card
type IssueQuizCard struct {
	RarityTag   domain.RarityTier
	SubjectName string
	Winner      bool
}

func (CreateAssetPool) Operation() string  { return OpCreateAssetPool }
func (IssueRegularCard) Operation() string { return OpIssueRegularCard }
func (IssueQuizCard) Operation() string    { return OpIssueQuizCard }
func (CreateAssetPool) isInstruction()     {}
func (IssueRegularCard) isInstruction()    {}
func (IssueQuizCard) isInstruction()       {}

type envelope struct {
	Enum             borsh.Enum `borsh_enum:"true"`
	CreateAssetPool  createAssetPoolArgs
	IssueCard        issueCardArgs
	IssueRegularCard issueRegularCardArgs
	IssueQuizCard    issueQuizCardArgs
}

type createAssetPoolArgs struct {
	Title  string
	Symbol string
	URI    string
}

// issueCardArgs is the combined form: exactly one of IsNewSubject and QuizResult is set
type issueCardArgs struct {
	RarityTag    uint8
	SubjectName  string
	IsNewSubject *bool
	QuizResult   *bool
}

type issueRegularCardArgs struct {
	RarityTag    uint8
	SubjectName  string
	IsNewSubject bool
}

type issueQuizCardArgs struct {
	RarityTag   uint8
	SubjectName string
	Winner      bool
}

// Decode parses and validates an envelope. Every failure is domain.ErrMalformedInstruction.
func Decode(data []byte) (Instruction, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: empty instruction", domain.ErrMalformedInstruction)
	}
	if len(data) > MAX_INSTRUCTION_SIZE {
		return nil, fmt.Errorf("%w: instruction is %d bytes", domain.ErrMalformedInstruction, len(data))
	}
	if err := checkLayout(data); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrMalformedInstruction, err)
	}

	var env envelope
	if err := borsh.Deserialize(&env, data); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrMalformedInstruction, err)
	}

	switch uint8(env.Enum) {
	case TagCreateAssetPool:
		a := env.CreateAssetPool
		ins := CreateAssetPool{Title: a.Title, Symbol: a.Symbol, URI: a.URI}
		return ins, validatePool(ins)

	case TagIssueCard:
		return normalizeIssueCard(env.IssueCard)

	case TagIssueRegularCard:
		a := env.IssueRegularCard
		return newRegular(a.RarityTag, a.SubjectName, a.IsNewSubject)

	case TagIssueQuizCard:
		a := env.IssueQuizCard
		return newQuiz(a.RarityTag, a.SubjectName, a.Winner)

	default:
		return nil, fmt.Errorf("%w: unknown variant %d", domain.ErrMalformedInstruction, env.Enum)
	}
}

// Encode serializes an instruction into its envelope
func Encode(ins Instruction) ([]byte, error) {
	var env envelope
	switch v := ins.(type) {
	case CreateAssetPool:
		env.Enum = borsh.Enum(TagCreateAssetPool)
		env.CreateAssetPool = createAssetPoolArgs{Title: v.Title, Symbol: v.Symbol, URI: v.URI}
	case IssueRegularCard:
		env.Enum = borsh.Enum(TagIssueRegularCard)
		env.IssueRegularCard = issueRegularCardArgs{RarityTag: uint8(v.RarityTag), SubjectName: v.SubjectName, IsNewSubject: v.IsNewSubject}
	case IssueQuizCard:
		env.Enum = borsh.Enum(TagIssueQuizCard)
		env.IssueQuizCard = issueQuizCardArgs{RarityTag: uint8(v.RarityTag), SubjectName: v.SubjectName, Winner: v.Winner}
	default:
		return nil, fmt.Errorf("unsupported instruction %T", ins)
	}

	data, err := borsh.Serialize(env)
	if err != nil {
		return nil, fmt.Errorf("failed to encode instruction: %w", err)
	}
	return data, nil
}

// EncodeIssueCard serializes the combined issue form, as older clients send it
func EncodeIssueCard(tag domain.RarityTier, subject string, isNewSubject, quizResult *bool) ([]byte, error) {
	data, err := borsh.Serialize(envelope{
		Enum: borsh.Enum(TagIssueCard),
		IssueCard: issueCardArgs{
			RarityTag:    uint8(tag),
			SubjectName:  subject,
			IsNewSubject: isNewSubject,
			QuizResult:   quizResult,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to encode instruction: %w", err)
	}
	return data, nil
}

func normalizeIssueCard(a issueCardArgs) (Instruction, error) {
	switch {
	case a.IsNewSubject != nil && a.QuizResult == nil:
		return newRegular(a.RarityTag, a.SubjectName, *a.IsNewSubject)
	case a.QuizResult != nil && a.IsNewSubject == nil:
		return newQuiz(a.RarityTag, a.SubjectName, *a.QuizResult)
	default:
		return nil, fmt.Errorf("%w: exactly one of is_new_subject and quiz_result must be set", domain.ErrMalformedInstruction)
	}
}

func newRegular(tag uint8, subject string, isNew bool) (Instruction, error) {
	rarity, err := checkIssue(domain.PathRegular, tag, subject)
	if err != nil {
		return nil, err
	}
	return IssueRegularCard{RarityTag: rarity, SubjectName: subject, IsNewSubject: isNew}, nil
}

func newQuiz(tag uint8, subject string, winner bool) (Instruction, error) {
	rarity, err := checkIssue(domain.PathQuiz, tag, subject)
	if err != nil {
		return nil, err
	}
	return IssueQuizCard{RarityTag: rarity, SubjectName: subject, Winner: winner}, nil
}

func checkIssue(kind domain.PathKind, tag uint8, subject string) (domain.RarityTier, error) {
	rarity := domain.RarityTier(tag)
	if !rarity.Valid() {
		return 0, fmt.Errorf("%w: unknown rarity tag %d", domain.ErrMalformedInstruction, tag)
	}
	if !kind.Allows(rarity) {
		return 0, fmt.Errorf("%w: rarity tag %s is not a %s tier", domain.ErrMalformedInstruction, rarity, kind)
	}
	if err := domain.ValidateSubjectName(subject); err != nil {
		return 0, err
	}
	return rarity, nil
}

func validatePool(p CreateAssetPool) error {
	switch {
	case p.Title == "" || len(p.Title) > domain.MAX_POOL_TITLE_LEN:
		return fmt.Errorf("%w: pool title must be 1..%d bytes", domain.ErrMalformedInstruction, domain.MAX_POOL_TITLE_LEN)
	case p.Symbol == "" || len(p.Symbol) > domain.MAX_POOL_SYMBOL_LEN:
		return fmt.Errorf("%w: pool symbol must be 1..%d bytes", domain.ErrMalformedInstruction, domain.MAX_POOL_SYMBOL_LEN)
	case len(p.URI) > domain.MAX_POOL_URI_LEN:
		return fmt.Errorf("%w: pool uri exceeds %d bytes", domain.ErrMalformedInstruction, domain.MAX_POOL_URI_LEN)
	}
	return nil
}

// checkLayout walks the envelope's wire layout and requires that it consumes every byte
func checkLayout(data []byte) error {
	r := &layoutReader{buf: data}

	switch tag := r.u8(); tag {
	case TagCreateAssetPool:
		r.str()
		r.str()
		r.str()
	case TagIssueCard:
		r.u8()
		r.str()
		if r.option() {
			r.boolean()
		}
		if r.option() {
			r.boolean()
		}
	case TagIssueRegularCard, TagIssueQuizCard:
		r.u8()
		r.str()
		r.boolean()
	default:
		if r.err == nil {
			return fmt.Errorf("unknown variant %d", tag)
		}
	}

	if r.err != nil {
		return r.err
	}
	if r.off != len(data) {
		return fmt.Errorf("%d trailing bytes", len(data)-r.off)
	}
	return nil
}

type layoutReader struct {
	buf []byte
	off int
	err error
}

func (r *layoutReader) take(n int) []byte {
	if r.err != nil {
		return nil
	}
	if n < 0 || len(r.buf)-r.off < n {
		r.err = fmt.Errorf("unexpected end of instruction at byte %d", r.off)
		return nil
	}
	b := r.buf[r.off : r.off+n]
	r.off += n
	return b
}

func (r *layoutReader) u8() uint8 {
	b := r.take(1)
	if b == nil {
		return 0
	}
	return b[0]
}

func (r *layoutReader) boolean() {
	if v := r.u8(); r.err == nil && v > 1 {
		r.err = fmt.Errorf("invalid bool %d at byte %d", v, r.off-1)
	}
}

func (r *layoutReader) option() bool {
	v := r.u8()
	if r.err == nil && v > 1 {
		r.err = fmt.Errorf("invalid option tag %d at byte %d", v, r.off-1)
	}
	return v == 1
}

func (r *layoutReader) str() {
	b := r.take(4)
	if b == nil {
		return
	}
	n := binary.LittleEndian.Uint32(b)
	if int64(n) > int64(len(r.buf)-r.off) {
		r.err = fmt.Errorf("string length %d exceeds instruction", n)
		return
	}
	r.take(int(n))
}
