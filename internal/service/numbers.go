package service

import (
	"encoding/binary"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

// numberGenerator builds order / purchase numbers without a shared counter:
// PREFIX-YY-<unix millis base36>-<random base36>
type numberGenerator struct {
	now    func() time.Time
	random func() uuid.UUID
}

func defaultNumberGenerator() numberGenerator {
	return numberGenerator{now: time.Now, random: uuid.New}
}

func (g numberGenerator) next(prefix string) string {
	t := g.now()
	id := g.random()
	token := strconv.FormatInt(t.UnixMilli(), 36)
	suffix := strconv.FormatUint(uint64(binary.BigEndian.Uint32(id[:4])), 36)
	return strings.ToUpper(fmt.Sprintf("%s-%02d-%s-%s", prefix, t.Year()%100, token, suffix))
}
