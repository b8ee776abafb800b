package sqlinline

const QCreateImageRecordsTable = `--sql 81ceb4e5-854b-4ac9-b059-14e7e0f406a4
create table if not exists image_records (
  id              bigserial primary key,
  created_at      timestamptz not null default now(),
  image_name      text not null,
  additional_text text
)`

const QCreateImageRecordsCreatedAtIndex = `--sql 4369facd-d208-4c94-bd14-066676623398
create index if not exists image_records_created_at_idx
  on image_records (created_at)`

const QInsertImageRecord = `--sql c09ccd62-d794-4ee1-b7b4-779e12802ce2
insert into image_records (image_name, additional_text)
values ($1::text, $2::text)
returning id, created_at`

const QListImageRecordsBetween = `--sql 4cc60105-308e-4bea-a603-3a74fbb18957
select id, created_at, image_name, additional_text
from image_records
where created_at >= $1::timestamptz
  and created_at <  $2::timestamptz
order by created_at desc, id desc`
